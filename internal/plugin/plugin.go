// Package plugin assembles the call router, callback relay and push lifecycle
// hub into the service the host talks to.
package plugin

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"emma-bridge-plugin/internal/emma"
	"emma-bridge-plugin/internal/mainthread"
	"emma-bridge-plugin/internal/push"
	"emma-bridge-plugin/internal/relay"
	"emma-bridge-plugin/internal/router"
	"emma-bridge-plugin/sdk"
)

func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register(map[string]string{})
	gob.Register([]string{})
}

// ErrNoCallbacks is reported when the SDK cannot accept host callbacks.
var ErrNoCallbacks = errors.New("sdk does not accept host callbacks")

// CallbackDispatcher is implemented by SDKs whose callbacks arrive from the
// host rather than in-process.
type CallbackDispatcher interface {
	Dispatch(name string, payload string) error
}

// Options are the handles the plugin is built from. They are fixed for the
// plugin's lifetime.
type Options struct {
	SDK      emma.SDK
	Channel  relay.Channel
	UI       mainthread.Dispatcher
	Platform push.Platform

	// Handlers run after the vendor push handler, in order.
	Handlers []push.Handler
}

// Plugin implements the net/rpc service. Methods: CallMethod,
// HandleLifecycle, HandleCallback.
type Plugin struct {
	sdk    emma.SDK
	router *router.Router
	hub    *push.Hub
	push   *push.Service
}

func New(opts Options) *Plugin {
	ui := opts.UI
	if ui == nil {
		ui = mainthread.Inline{}
	}
	hub := push.NewHub()
	for _, h := range opts.Handlers {
		hub.Subscribe(h)
	}
	rl := relay.New(opts.Channel, ui)
	svc := push.NewService(hub, opts.SDK, opts.Platform, rl)
	r := router.New(router.Env{
		SDK:  opts.SDK,
		UI:   ui,
		Ads:  rl,
		Push: svc,
	})
	return &Plugin{
		sdk:    opts.SDK,
		router: r,
		hub:    hub,
		push:   svc,
	}
}

// Router exposes the call router, e.g. to swap its tracer.
func (p *Plugin) Router() *router.Router { return p.router }

// Hub exposes the push lifecycle hub for in-process subscribers.
func (p *Plugin) Hub() *push.Hub { return p.hub }

func (p *Plugin) CallMethod(req sdk.Request, res *sdk.Response) error {
	*res = p.router.Handle(context.Background(), req.Method, req.Args)
	return nil
}

func (p *Plugin) HandleLifecycle(ev sdk.LifecycleEvent, ack *sdk.LifecycleAck) error {
	*ack = sdk.LifecycleAck{Handled: true}
	switch ev.Kind {
	case sdk.LifecycleDidFinishLaunching:
		ack.Handled = p.push.DidFinishLaunching(ev.UserInfo)
	case sdk.LifecycleDidRegisterToken:
		p.hub.TokenRegistered(ev.Token)
	case sdk.LifecycleDidFailToRegister:
		p.hub.RegistrationFailed(errors.New(ev.Error))
	case sdk.LifecycleDidRegisterSettings:
		p.hub.SettingsRegistered()
	case sdk.LifecycleWillPresent:
		p.hub.WillPresent(push.Notification{UserInfo: ev.UserInfo}, func(o emma.PresentationOptions) {
			ack.Options = uint32(o)
		})
	case sdk.LifecycleDidReceive:
		p.hub.DidReceive(push.Response{UserInfo: ev.UserInfo, ActionIdentifier: ev.ActionIdentifier}, nil)
	default:
		*ack = sdk.LifecycleAck{Handled: false, Error: fmt.Sprintf("unknown lifecycle event: %s", ev.Kind)}
	}
	return nil
}

func (p *Plugin) HandleCallback(cb sdk.Callback, ack *sdk.LifecycleAck) error {
	dispatcher, ok := p.sdk.(CallbackDispatcher)
	if !ok {
		*ack = sdk.LifecycleAck{Error: ErrNoCallbacks.Error()}
		return nil
	}
	if err := dispatcher.Dispatch(cb.Name, cb.Payload); err != nil {
		*ack = sdk.LifecycleAck{Error: err.Error()}
		return nil
	}
	*ack = sdk.LifecycleAck{Handled: true}
	return nil
}
