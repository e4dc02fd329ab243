// Package channel sends outbound method-channel messages through the host.
package channel

import (
	"log"

	"github.com/tidwall/sjson"

	"emma-bridge-plugin/internal/host"
	"emma-bridge-plugin/internal/relay"
)

// Name is the method channel the application layer listens on.
const Name = "emma_flutter_sdk"

// HostChannel implements relay.Channel with the host's "invokeMethod" op.
type HostChannel struct {
	invoker host.Invoker
}

func New(invoker host.Invoker) *HostChannel {
	return &HostChannel{invoker: invoker}
}

// Encode builds the invokeMethod payload.
func Encode(method string, arguments any) (string, error) {
	payload, err := sjson.Set("{}", "channel", Name)
	if err != nil {
		return "", err
	}
	payload, err = sjson.Set(payload, "method", method)
	if err != nil {
		return "", err
	}
	return sjson.Set(payload, "arguments", arguments)
}

func (c *HostChannel) InvokeMethod(method string, arguments any) {
	payload, err := Encode(method, arguments)
	if err != nil {
		log.Printf("[channel] encode %s: %v", method, err)
		return
	}
	if _, err := c.invoker.Invoke("invokeMethod", payload); err != nil {
		log.Printf("[channel] invoke %s: %v", method, err)
	}
}

var _ relay.Channel = (*HostChannel)(nil)
