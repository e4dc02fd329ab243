// Package push fans host notification lifecycle events out to every
// interested party, in registration order.
package push

import (
	"sync"

	"emma-bridge-plugin/internal/emma"
)

// Notification is a push delivered while the app is in the foreground.
type Notification struct {
	UserInfo map[string]any
}

// Response is the user's interaction with a delivered push.
type Response struct {
	UserInfo         map[string]any
	ActionIdentifier string
}

// Handler subscribes to lifecycle events. Nil funcs are skipped.
type Handler struct {
	Name string

	TokenRegistered    func(token []byte)
	RegistrationFailed func(err error)
	SettingsRegistered func()
	WillPresent        func(n Notification) emma.PresentationOptions
	DidReceive         func(r Response)
}

// Hub holds the ordered handler list. Dispatch works on a snapshot, so
// handlers may subscribe from inside a callback.
type Hub struct {
	mu       sync.Mutex
	handlers []Handler
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe appends h; it runs after every handler already registered.
func (hub *Hub) Subscribe(h Handler) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.handlers = append(hub.handlers, h)
}

// Prepend inserts h ahead of every handler already registered.
func (hub *Hub) Prepend(h Handler) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.handlers = append([]Handler{h}, hub.handlers...)
}

// Names returns the handler names in dispatch order.
func (hub *Hub) Names() []string {
	handlers := hub.snapshot()
	out := make([]string, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, h.Name)
	}
	return out
}

func (hub *Hub) TokenRegistered(token []byte) {
	for _, h := range hub.snapshot() {
		if h.TokenRegistered != nil {
			h.TokenRegistered(token)
		}
	}
}

func (hub *Hub) RegistrationFailed(err error) {
	for _, h := range hub.snapshot() {
		if h.RegistrationFailed != nil {
			h.RegistrationFailed(err)
		}
	}
}

func (hub *Hub) SettingsRegistered() {
	for _, h := range hub.snapshot() {
		if h.SettingsRegistered != nil {
			h.SettingsRegistered()
		}
	}
}

// WillPresent runs every handler and calls complete once with the union of
// the requested presentation options.
func (hub *Hub) WillPresent(n Notification, complete func(emma.PresentationOptions)) {
	var options emma.PresentationOptions
	for _, h := range hub.snapshot() {
		if h.WillPresent != nil {
			options |= h.WillPresent(n)
		}
	}
	if complete != nil {
		complete(options)
	}
}

// DidReceive runs every handler, then calls complete once.
func (hub *Hub) DidReceive(r Response, complete func()) {
	for _, h := range hub.snapshot() {
		if h.DidReceive != nil {
			h.DidReceive(r)
		}
	}
	if complete != nil {
		complete()
	}
}

func (hub *Hub) snapshot() []Handler {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	out := make([]Handler, len(hub.handlers))
	copy(out, hub.handlers)
	return out
}
