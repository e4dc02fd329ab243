// Package emmatest provides an in-memory emma.SDK that records invocations.
package emmatest

import (
	"sync"

	"emma-bridge-plugin/internal/emma"
)

// Call is one recorded SDK invocation.
type Call struct {
	Name string
	Args []any
}

// Recorder implements emma.SDK by appending every call to Calls.
type Recorder struct {
	SDKVersion string

	mu    sync.Mutex
	calls []Call

	// Delegates captured from NativeAdMessage and StartPushSystem.
	InAppDelegate emma.InAppMessageDelegate
	PushDelegate  emma.PushDelegate
}

func New() *Recorder {
	return &Recorder{SDKVersion: "4.15.0"}
}

func (r *Recorder) record(name string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Name: name, Args: args})
}

// Calls returns a copy of the recorded calls in invocation order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Names returns the recorded call names in order.
func (r *Recorder) Names() []string {
	calls := r.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Name)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *Recorder) Version() string {
	r.record("Version")
	return r.SDKVersion
}

func (r *Recorder) StartSession(cfg emma.Configuration) { r.record("StartSession", cfg) }

func (r *Recorder) TrackEvent(req emma.EventRequest) { r.record("TrackEvent", req) }

func (r *Recorder) TrackExtraUserInfo(info map[string]string) {
	r.record("TrackExtraUserInfo", info)
}

func (r *Recorder) LoginUser(userID, email string, extras map[string]string) {
	r.record("LoginUser", userID, email, extras)
}

func (r *Recorder) RegisterUser(userID, email string, extras map[string]string) {
	r.record("RegisterUser", userID, email, extras)
}

func (r *Recorder) InAppMessage(req emma.InAppRequest) { r.record("InAppMessage", req) }

func (r *Recorder) NativeAdMessage(req emma.NativeAdRequest, delegate emma.InAppMessageDelegate) {
	r.mu.Lock()
	r.InAppDelegate = delegate
	r.mu.Unlock()
	r.record("NativeAdMessage", req)
}

func (r *Recorder) StartPushSystem(delegate emma.PushDelegate) {
	r.mu.Lock()
	r.PushDelegate = delegate
	r.mu.Unlock()
	r.record("StartPushSystem")
}

func (r *Recorder) RegisterToken(token []byte) { r.record("RegisterToken", token) }

func (r *Recorder) HandlePush(userInfo map[string]any, actionIdentifier string) {
	r.record("HandlePush", userInfo, actionIdentifier)
}

func (r *Recorder) SendImpression(t emma.CommunicationType, campaignID string) {
	r.record("SendImpression", t, campaignID)
}

func (r *Recorder) SendClick(t emma.CommunicationType, campaignID string) {
	r.record("SendClick", t, campaignID)
}

func (r *Recorder) OpenNativeAd(campaignID string) { r.record("OpenNativeAd", campaignID) }

func (r *Recorder) StartOrder(o emma.Order) { r.record("StartOrder", o) }

func (r *Recorder) AddProduct(p emma.Product) { r.record("AddProduct", p) }

func (r *Recorder) TrackOrder() { r.record("TrackOrder") }

func (r *Recorder) CancelOrder(orderID string) { r.record("CancelOrder", orderID) }

func (r *Recorder) RequestTrackingWithIDFA() { r.record("RequestTrackingWithIDFA") }

func (r *Recorder) TrackLocation() { r.record("TrackLocation") }

var _ emma.SDK = (*Recorder)(nil)
