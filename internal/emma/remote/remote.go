// Package remote drives the native EMMA SDK through a host.Invoker. Each
// vendor call becomes one JSON operation; vendor callbacks come back through
// Dispatch.
package remote

import (
	"encoding/hex"
	"fmt"
	"log"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"emma-bridge-plugin/internal/emma"
	"emma-bridge-plugin/internal/host"
)

// Callback names accepted by Dispatch.
const (
	CallbackNativeAds = "onReceiveNativeAds"
	CallbackShown     = "onShown"
	CallbackHide      = "onHide"
	CallbackClose     = "onClose"
	CallbackPushOpen  = "onPushOpen"
)

type Client struct {
	invoker host.Invoker

	mu            sync.Mutex
	inAppDelegate emma.InAppMessageDelegate
	pushDelegate  emma.PushDelegate
}

func New(invoker host.Invoker) *Client {
	return &Client{invoker: invoker}
}

type field struct {
	path  string
	value any
}

func (c *Client) call(op string, fields ...field) string {
	payload := "{}"
	for _, f := range fields {
		var err error
		payload, err = sjson.Set(payload, f.path, f.value)
		if err != nil {
			log.Printf("[emma] encode %s.%s: %v", op, f.path, err)
			return ""
		}
	}
	res, err := c.invoker.Invoke(op, payload)
	if err != nil {
		log.Printf("[emma] %s: %v", op, err)
		return ""
	}
	return res
}

func (c *Client) Version() string {
	return gjson.Get(c.call("getSDKVersion"), "version").String()
}

func (c *Client) StartSession(cfg emma.Configuration) {
	c.call("startSession",
		field{"sessionKey", cfg.SessionKey},
		field{"debugEnabled", cfg.DebugEnabled})
}

func (c *Client) TrackEvent(req emma.EventRequest) {
	fields := []field{{"token", req.Token}}
	if req.Attributes != nil {
		fields = append(fields, field{"attributes", req.Attributes})
	}
	c.call("trackEvent", fields...)
}

func (c *Client) TrackExtraUserInfo(info map[string]string) {
	c.call("trackExtraUserInfo", field{"info", info})
}

func (c *Client) LoginUser(userID, email string, extras map[string]string) {
	c.call("loginUser", userFields(userID, email, extras)...)
}

func (c *Client) RegisterUser(userID, email string, extras map[string]string) {
	c.call("registerUser", userFields(userID, email, extras)...)
}

func userFields(userID, email string, extras map[string]string) []field {
	fields := []field{{"userId", userID}, {"email", email}}
	if extras != nil {
		fields = append(fields, field{"extras", extras})
	}
	return fields
}

func (c *Client) InAppMessage(req emma.InAppRequest) {
	c.call("inAppMessage", field{"type", string(req.Type)})
}

// NativeAdMessage keeps delegate for the ads the host reports via Dispatch.
func (c *Client) NativeAdMessage(req emma.NativeAdRequest, delegate emma.InAppMessageDelegate) {
	c.mu.Lock()
	c.inAppDelegate = delegate
	c.mu.Unlock()
	c.call("nativeAdMessage",
		field{"templateId", req.TemplateID},
		field{"batch", req.Batch})
}

func (c *Client) StartPushSystem(delegate emma.PushDelegate) {
	c.mu.Lock()
	c.pushDelegate = delegate
	c.mu.Unlock()
	c.call("startPushSystem")
}

func (c *Client) RegisterToken(token []byte) {
	c.call("registerToken", field{"token", hex.EncodeToString(token)})
}

func (c *Client) HandlePush(userInfo map[string]any, actionIdentifier string) {
	fields := []field{{"userInfo", userInfo}}
	if actionIdentifier != "" {
		fields = append(fields, field{"actionIdentifier", actionIdentifier})
	}
	c.call("handlePush", fields...)
}

func (c *Client) SendImpression(t emma.CommunicationType, campaignID string) {
	c.call("sendImpression", field{"campaignType", string(t)}, field{"campaignId", campaignID})
}

func (c *Client) SendClick(t emma.CommunicationType, campaignID string) {
	c.call("sendClick", field{"campaignType", string(t)}, field{"campaignId", campaignID})
}

func (c *Client) OpenNativeAd(campaignID string) {
	c.call("openNativeAd", field{"campaignId", campaignID})
}

func (c *Client) StartOrder(o emma.Order) {
	fields := []field{
		{"orderId", o.ID},
		{"customerId", o.CustomerID},
		{"totalPrice", o.TotalPrice},
	}
	if o.CurrencyCode != "" {
		fields = append(fields, field{"currencyCode", o.CurrencyCode})
	}
	if o.Coupon != nil {
		fields = append(fields, field{"coupon", *o.Coupon})
	}
	if o.Extras != nil {
		fields = append(fields, field{"extras", o.Extras})
	}
	c.call("startOrder", fields...)
}

func (c *Client) AddProduct(p emma.Product) {
	fields := []field{
		{"productId", p.ID},
		{"productName", p.Name},
		{"quantity", p.Quantity},
		{"price", p.Price},
	}
	if p.Extras != nil {
		fields = append(fields, field{"extras", p.Extras})
	}
	c.call("addProduct", fields...)
}

func (c *Client) TrackOrder() { c.call("trackOrder") }

func (c *Client) CancelOrder(orderID string) {
	c.call("cancelOrder", field{"orderId", orderID})
}

func (c *Client) RequestTrackingWithIDFA() { c.call("requestTrackingWithIdfa") }

func (c *Client) TrackLocation() { c.call("trackLocation") }

// Dispatch delivers a vendor callback reported by the host. Callbacks that
// arrive before a delegate is registered are dropped.
func (c *Client) Dispatch(name string, payload string) error {
	if payload != "" && !gjson.Valid(payload) {
		return fmt.Errorf("callback %s: invalid json payload", name)
	}
	doc := gjson.Parse(payload)

	c.mu.Lock()
	inApp, pushDelegate := c.inAppDelegate, c.pushDelegate
	c.mu.Unlock()

	switch name {
	case CallbackNativeAds:
		if inApp == nil {
			return nil
		}
		ads := doc.Get("ads").Array()
		out := make([]emma.NativeAd, 0, len(ads))
		for _, ad := range ads {
			out = append(out, parseNativeAd(ad))
		}
		if len(out) == 1 && !doc.Get("batch").Bool() {
			inApp.OnReceived(out[0])
			return nil
		}
		inApp.OnBatchNativeAdReceived(out)
	case CallbackShown, CallbackHide, CallbackClose:
		if inApp == nil {
			return nil
		}
		campaign := emma.Campaign{
			ID:   int(doc.Get("id").Int()),
			Type: emma.CommunicationType(doc.Get("type").String()),
		}
		switch name {
		case CallbackShown:
			inApp.OnShown(campaign)
		case CallbackHide:
			inApp.OnHide(campaign)
		default:
			inApp.OnClose(campaign)
		}
	case CallbackPushOpen:
		if pushDelegate == nil {
			return nil
		}
		pushDelegate.OnPushOpen(emma.Push{
			ID:     doc.Get("id").String(),
			Params: stringMap(doc.Get("params")),
		})
	default:
		return fmt.Errorf("unknown callback: %s", name)
	}
	return nil
}

func parseNativeAd(r gjson.Result) emma.NativeAd {
	ad := emma.NativeAd{
		ID:         int(r.Get("id").Int()),
		TemplateID: r.Get("templateId").String(),
		Times:      int(r.Get("times").Int()),
		Tag:        r.Get("tag").String(),
		ShowOn:     r.Get("showOn").String(),
		CTA:        r.Get("cta").String(),
		Params:     stringMap(r.Get("params")),
	}
	if fields := r.Get("fields"); fields.IsObject() {
		if m, ok := fields.Value().(map[string]any); ok {
			ad.Fields = m
		}
	}
	return ad
}

func stringMap(r gjson.Result) map[string]string {
	if !r.IsObject() {
		return nil
	}
	out := map[string]string{}
	r.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}

var _ emma.SDK = (*Client)(nil)
