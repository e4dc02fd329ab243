package remote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"emma-bridge-plugin/internal/emma"
)

type op struct {
	name    string
	payload string
}

type fakeInvoker struct {
	ops     []op
	results map[string]string
	err     error
}

func (f *fakeInvoker) Invoke(name string, payload string) (string, error) {
	f.ops = append(f.ops, op{name, payload})
	if f.err != nil {
		return "", f.err
	}
	return f.results[name], nil
}

type adSink struct {
	single  []emma.NativeAd
	batches [][]emma.NativeAd
	shown   []emma.Campaign
	closed  []emma.Campaign
}

func (s *adSink) OnReceived(ad emma.NativeAd) { s.single = append(s.single, ad) }
func (s *adSink) OnBatchNativeAdReceived(ads []emma.NativeAd) { s.batches = append(s.batches, ads) }
func (s *adSink) OnShown(c emma.Campaign) { s.shown = append(s.shown, c) }
func (s *adSink) OnHide(emma.Campaign) {}
func (s *adSink) OnClose(c emma.Campaign) { s.closed = append(s.closed, c) }

type pushSink struct{ opened []emma.Push }

func (s *pushSink) OnPushOpen(p emma.Push) { s.opened = append(s.opened, p) }

func TestVersion(t *testing.T) {
	inv := &fakeInvoker{results: map[string]string{"getSDKVersion": `{"version":"4.15.0"}`}}
	assert.Equal(t, "4.15.0", New(inv).Version())
}

func TestVersionOnHostError(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("gone")}
	assert.Equal(t, "", New(inv).Version())
}

func TestStartOrderPayload(t *testing.T) {
	inv := &fakeInvoker{}
	coupon := "SPRING"
	New(inv).StartOrder(emma.Order{
		ID:           "A1",
		CustomerID:   "C1",
		TotalPrice:   9.99,
		CurrencyCode: "EUR",
		Coupon:       &coupon,
		Extras:       map[string]string{"k": "v"},
	})

	require.Len(t, inv.ops, 1)
	assert.Equal(t, "startOrder", inv.ops[0].name)
	p := gjson.Parse(inv.ops[0].payload)
	assert.Equal(t, "A1", p.Get("orderId").String())
	assert.Equal(t, "C1", p.Get("customerId").String())
	assert.InDelta(t, 9.99, p.Get("totalPrice").Float(), 1e-9)
	assert.Equal(t, "EUR", p.Get("currencyCode").String())
	assert.Equal(t, "SPRING", p.Get("coupon").String())
	assert.Equal(t, "v", p.Get("extras.k").String())
}

func TestStartOrderOmitsAbsentOptionals(t *testing.T) {
	inv := &fakeInvoker{}
	New(inv).StartOrder(emma.Order{ID: "A1", CustomerID: "C1", TotalPrice: 1})

	p := gjson.Parse(inv.ops[0].payload)
	assert.False(t, p.Get("coupon").Exists())
	assert.False(t, p.Get("extras").Exists())
	assert.False(t, p.Get("currencyCode").Exists())
}

func TestTrackEventAndPushPayloads(t *testing.T) {
	inv := &fakeInvoker{}
	c := New(inv)
	c.TrackEvent(emma.EventRequest{Token: "T1", Attributes: map[string]any{"n": 2}})
	c.RegisterToken([]byte{0xab, 0x01})
	c.HandlePush(map[string]any{"id": "9"}, "reply")
	c.SendClick(emma.CommBanner, "12")

	require.Len(t, inv.ops, 4)
	assert.Equal(t, "T1", gjson.Get(inv.ops[0].payload, "token").String())
	assert.Equal(t, int64(2), gjson.Get(inv.ops[0].payload, "attributes.n").Int())
	assert.Equal(t, "ab01", gjson.Get(inv.ops[1].payload, "token").String())
	assert.Equal(t, "9", gjson.Get(inv.ops[2].payload, "userInfo.id").String())
	assert.Equal(t, "reply", gjson.Get(inv.ops[2].payload, "actionIdentifier").String())
	assert.Equal(t, "banner", gjson.Get(inv.ops[3].payload, "campaignType").String())
	assert.Equal(t, "12", gjson.Get(inv.ops[3].payload, "campaignId").String())
}

func TestDispatchNativeAds(t *testing.T) {
	inv := &fakeInvoker{}
	c := New(inv)
	sink := &adSink{}
	c.NativeAdMessage(emma.NativeAdRequest{TemplateID: "tpl"}, sink)

	require.NoError(t, c.Dispatch(CallbackNativeAds, `{"ads":[{"id":5,"templateId":"tpl","times":2,"params":{"a":"b"},"fields":{"Title":"Hi"}}]}`))
	require.NoError(t, c.Dispatch(CallbackNativeAds, `{"batch":true,"ads":[{"id":1},{"id":2}]}`))

	require.Len(t, sink.single, 1)
	assert.Equal(t, 5, sink.single[0].ID)
	assert.Equal(t, 2, sink.single[0].Times)
	assert.Equal(t, map[string]string{"a": "b"}, sink.single[0].Params)
	assert.Equal(t, map[string]any{"Title": "Hi"}, sink.single[0].Fields)

	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 2)
	assert.Equal(t, 1, sink.batches[0][0].ID)
	assert.Equal(t, 2, sink.batches[0][1].ID)
}

func TestDispatchCampaignAndPush(t *testing.T) {
	c := New(&fakeInvoker{})
	ads := &adSink{}
	pushes := &pushSink{}
	c.NativeAdMessage(emma.NativeAdRequest{}, ads)
	c.StartPushSystem(pushes)

	require.NoError(t, c.Dispatch(CallbackShown, `{"id":3,"type":"banner"}`))
	require.NoError(t, c.Dispatch(CallbackClose, `{"id":3,"type":"banner"}`))
	require.NoError(t, c.Dispatch(CallbackPushOpen, `{"id":"p1","params":{"url":"x"}}`))

	assert.Equal(t, []emma.Campaign{{ID: 3, Type: emma.CommBanner}}, ads.shown)
	assert.Equal(t, []emma.Campaign{{ID: 3, Type: emma.CommBanner}}, ads.closed)
	assert.Equal(t, []emma.Push{{ID: "p1", Params: map[string]string{"url": "x"}}}, pushes.opened)
}

func TestDispatchErrors(t *testing.T) {
	c := New(&fakeInvoker{})
	assert.NoError(t, c.Dispatch(CallbackNativeAds, `{"ads":[]}`), "no delegate yet")
	assert.Error(t, c.Dispatch("onExplode", `{}`))
	assert.Error(t, c.Dispatch(CallbackShown, `{not json`))
}
