package push

import (
	"errors"
	"testing"

	"emma-bridge-plugin/internal/emma"
	"emma-bridge-plugin/internal/emma/emmatest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct{ registered int }

func (p *fakePlatform) RegisterForRemoteNotifications() { p.registered++ }

func TestHubDispatchesInOrder(t *testing.T) {
	hub := NewHub()
	var order []string
	hub.Subscribe(Handler{Name: "host", TokenRegistered: func([]byte) { order = append(order, "host") }})
	hub.Subscribe(Handler{Name: "analytics", TokenRegistered: func([]byte) { order = append(order, "analytics") }})
	hub.Prepend(Handler{Name: "emma", TokenRegistered: func([]byte) { order = append(order, "emma") }})

	hub.TokenRegistered([]byte{0x1})

	assert.Equal(t, []string{"emma", "host", "analytics"}, order)
	assert.Equal(t, []string{"emma", "host", "analytics"}, hub.Names())
}

func TestHubSkipsNilHooks(t *testing.T) {
	hub := NewHub()
	hub.Subscribe(Handler{Name: "empty"})
	failed := 0
	hub.Subscribe(Handler{Name: "errors", RegistrationFailed: func(error) { failed++ }})

	hub.RegistrationFailed(errors.New("no entitlement"))
	hub.SettingsRegistered()
	hub.DidReceive(Response{}, nil)

	assert.Equal(t, 1, failed)
}

func TestWillPresentCompletesOnceWithUnion(t *testing.T) {
	hub := NewHub()
	hub.Subscribe(Handler{WillPresent: func(Notification) emma.PresentationOptions { return emma.PresentBadge }})
	hub.Subscribe(Handler{WillPresent: func(Notification) emma.PresentationOptions { return emma.PresentAlert }})

	calls := 0
	var got emma.PresentationOptions
	hub.WillPresent(Notification{}, func(o emma.PresentationOptions) {
		calls++
		got = o
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, emma.PresentBadge|emma.PresentAlert, got)
}

func TestDidReceiveCompletesAfterHandlers(t *testing.T) {
	hub := NewHub()
	var order []string
	hub.Subscribe(Handler{DidReceive: func(Response) { order = append(order, "handler") }})

	hub.DidReceive(Response{ActionIdentifier: "open"}, func() { order = append(order, "complete") })

	assert.Equal(t, []string{"handler", "complete"}, order)
}

func TestSubscribeFromCallbackDoesNotDeadlock(t *testing.T) {
	hub := NewHub()
	hub.Subscribe(Handler{SettingsRegistered: func() { hub.Subscribe(Handler{Name: "late"}) }})

	hub.SettingsRegistered()

	assert.Equal(t, []string{"", "late"}, hub.Names())
}

func TestServiceRunsVendorBeforeHost(t *testing.T) {
	rec := emmatest.New()
	hub := NewHub()
	var hostSawToken []byte
	hub.Subscribe(Handler{Name: "host", TokenRegistered: func(tok []byte) {
		require.Equal(t, []string{"StartPushSystem", "RegisterToken"}, rec.Names(), "vendor must see the token first")
		hostSawToken = tok
	}})

	svc := NewService(hub, rec, &fakePlatform{}, nil)
	svc.StartPush()
	hub.TokenRegistered([]byte("tok"))

	assert.Equal(t, []byte("tok"), hostSawToken)
	assert.Equal(t, []string{VendorHandlerName, "host"}, hub.Names())
}

func TestServiceInstallsVendorHandlerOnce(t *testing.T) {
	rec := emmatest.New()
	hub := NewHub()
	svc := NewService(hub, rec, nil, nil)

	svc.StartPush()
	svc.StartPush()

	assert.Equal(t, []string{VendorHandlerName}, hub.Names())
	assert.Equal(t, []string{"StartPushSystem", "StartPushSystem"}, rec.Names())
}

func TestVendorHandlerForwardsNotifications(t *testing.T) {
	rec := emmatest.New()
	platform := &fakePlatform{}
	hub := NewHub()
	NewService(hub, rec, platform, nil).StartPush()
	rec.Reset()

	payload := map[string]any{"eMMa": map[string]any{"id": "1"}}
	var options emma.PresentationOptions
	hub.WillPresent(Notification{UserInfo: payload}, func(o emma.PresentationOptions) { options = o })
	hub.DidReceive(Response{UserInfo: payload, ActionIdentifier: "reply"}, nil)
	hub.SettingsRegistered()

	assert.Equal(t, emma.PresentBadge|emma.PresentSound, options)
	assert.Equal(t, []emmatest.Call{
		{Name: "HandlePush", Args: []any{payload, ""}},
		{Name: "HandlePush", Args: []any{payload, "reply"}},
	}, rec.Calls())
	assert.Equal(t, 1, platform.registered)
}

func TestColdLaunchWithNotification(t *testing.T) {
	rec := emmatest.New()
	hub := NewHub()
	svc := NewService(hub, rec, nil, nil)

	payload := map[string]any{"aps": map[string]any{"alert": "hi"}}
	assert.True(t, svc.DidFinishLaunching(payload))

	assert.Equal(t, []string{"StartPushSystem", "HandlePush"}, rec.Names())
	assert.Equal(t, []string{VendorHandlerName}, hub.Names())
}

func TestNormalLaunch(t *testing.T) {
	rec := emmatest.New()
	svc := NewService(NewHub(), rec, nil, nil)

	assert.True(t, svc.DidFinishLaunching(nil))
	assert.Empty(t, rec.Calls())
}
