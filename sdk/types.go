package sdk

// Request is the RPC input for the EMMA bridge.
// Method is a case-sensitive call name (e.g. "startSession").
// Args carries the loosely typed argument bundle for that call.
type Request struct {
	Method string         `json:"method"`
	Args   map[string]any `json:"args"`
}

// Response is the RPC output for the EMMA bridge.
// A failed call carries a stable Code plus a human readable Error.
// NotImplemented is set when Method is not a known call.
// Data is nil on success except for the version query.
type Response struct {
	Success        bool   `json:"success"`
	Code           string `json:"code,omitempty"`
	Error          string `json:"error,omitempty"`
	NotImplemented bool   `json:"notImplemented,omitempty"`
	Data           any    `json:"data,omitempty"`
}

// LifecycleEvent is a host platform notification forwarded to the bridge.
// Kind selects which of the remaining fields are meaningful.
type LifecycleEvent struct {
	Kind string `json:"kind"`

	// Token is the APNs device token for "didRegisterToken".
	Token []byte `json:"token,omitempty"`

	// Error describes the failure for "didFailToRegister".
	Error string `json:"error,omitempty"`

	// UserInfo is the notification payload for "willPresent", "didReceive"
	// and, as the launch notification, "didFinishLaunching".
	UserInfo map[string]any `json:"userInfo,omitempty"`

	// ActionIdentifier is the action the user took for "didReceive".
	ActionIdentifier string `json:"actionIdentifier,omitempty"`
}

// Lifecycle event kinds.
const (
	LifecycleDidFinishLaunching  = "didFinishLaunching"
	LifecycleDidRegisterToken    = "didRegisterToken"
	LifecycleDidFailToRegister   = "didFailToRegister"
	LifecycleDidRegisterSettings = "didRegisterSettings"
	LifecycleWillPresent         = "willPresent"
	LifecycleDidReceive          = "didReceive"
)

// LifecycleAck is the bridge answer to a LifecycleEvent.
// Options is the presentation option bitmask for "willPresent";
// Handled is the launch result for "didFinishLaunching".
type LifecycleAck struct {
	Handled bool   `json:"handled"`
	Options uint32 `json:"options,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Callback is a vendor SDK callback reported by the host, such as delivered
// native ads. Payload is a JSON document.
type Callback struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
}
