// Package relay forwards vendor SDK callbacks to the application layer.
package relay

import (
	"emma-bridge-plugin/internal/emma"
	"emma-bridge-plugin/internal/mainthread"
)

// EventReceiveNativeAds carries a list of normalized native ads.
const EventReceiveNativeAds = "Emma#onReceiveNativeAds"

// Channel is the outbound half of the method channel.
type Channel interface {
	InvokeMethod(method string, arguments any)
}

// Relay implements the vendor delegates. The channel and dispatcher are fixed
// at construction.
type Relay struct {
	channel Channel
	ui      mainthread.Dispatcher
}

func New(channel Channel, ui mainthread.Dispatcher) *Relay {
	return &Relay{channel: channel, ui: ui}
}

// OnReceiveNativeAds emits one event holding every ad, in input order.
func (r *Relay) OnReceiveNativeAds(ads []emma.NativeAd) {
	converted := make([]map[string]any, 0, len(ads))
	for _, ad := range ads {
		converted = append(converted, emma.NativeAdToMap(ad))
	}
	r.ui.Post(func() {
		r.channel.InvokeMethod(EventReceiveNativeAds, converted)
	})
}

func (r *Relay) OnReceived(ad emma.NativeAd) {
	r.OnReceiveNativeAds([]emma.NativeAd{ad})
}

func (r *Relay) OnBatchNativeAdReceived(ads []emma.NativeAd) {
	r.OnReceiveNativeAds(ads)
}

// Campaign visibility and push open hooks are not forwarded yet.

func (r *Relay) OnShown(emma.Campaign) {}

func (r *Relay) OnHide(emma.Campaign) {}

func (r *Relay) OnClose(emma.Campaign) {}

func (r *Relay) OnPushOpen(emma.Push) {}

var (
	_ emma.InAppMessageDelegate = (*Relay)(nil)
	_ emma.PushDelegate         = (*Relay)(nil)
)
