package push

import (
	"log"
	"sync"

	"emma-bridge-plugin/internal/emma"
)

// VendorHandlerName names the handler that feeds the vendor SDK.
const VendorHandlerName = "emma"

// Platform is the host notification API the vendor handler needs.
type Platform interface {
	RegisterForRemoteNotifications()
}

// Service owns the vendor side of push: it installs the vendor handler at the
// front of the hub exactly once and starts the vendor push system.
type Service struct {
	hub      *Hub
	sdk      emma.SDK
	platform Platform
	delegate emma.PushDelegate

	installOnce sync.Once
}

func NewService(hub *Hub, sdk emma.SDK, platform Platform, delegate emma.PushDelegate) *Service {
	return &Service{hub: hub, sdk: sdk, platform: platform, delegate: delegate}
}

// StartPush installs the vendor handler if needed and starts the push system.
func (s *Service) StartPush() {
	s.installOnce.Do(func() {
		s.hub.Prepend(VendorHandler(s.sdk, s.platform))
	})
	s.sdk.StartPushSystem(s.delegate)
}

// DidFinishLaunching replays a notification that cold-started the app.
// launchNotification is nil for a normal launch. It always reports the launch
// as handled.
func (s *Service) DidFinishLaunching(launchNotification map[string]any) bool {
	if launchNotification == nil {
		return true
	}
	s.StartPush()
	s.sdk.HandlePush(launchNotification, "")
	return true
}

// VendorHandler forwards lifecycle events to the vendor SDK.
func VendorHandler(sdk emma.SDK, platform Platform) Handler {
	return Handler{
		Name: VendorHandlerName,
		TokenRegistered: func(token []byte) {
			sdk.RegisterToken(token)
		},
		RegistrationFailed: func(err error) {
			log.Printf("[push] error registering notifications: %v", err)
		},
		SettingsRegistered: func() {
			if platform != nil {
				platform.RegisterForRemoteNotifications()
			}
		},
		WillPresent: func(n Notification) emma.PresentationOptions {
			sdk.HandlePush(n.UserInfo, "")
			return emma.PresentBadge | emma.PresentSound
		},
		DidReceive: func(r Response) {
			sdk.HandlePush(r.UserInfo, r.ActionIdentifier)
		},
	}
}
