// Package host reaches the native side of the bridge: the vendor SDK, the
// outbound method channel and the host's own notification delegate.
package host

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/rpc"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"emma-bridge-plugin/internal/emma"
	"emma-bridge-plugin/internal/push"
)

// ErrClosed is returned by Invoke after Close.
var ErrClosed = errors.New("host connection closed")

// Invoker performs one named operation on the native side. payload and the
// result are JSON documents.
type Invoker interface {
	Invoke(op string, payload string) (string, error)
}

// InvokeArgs is the net/rpc request for Host.Invoke.
type InvokeArgs struct {
	ID      string
	Op      string
	Payload string
}

// InvokeReply is the net/rpc reply for Host.Invoke.
type InvokeReply struct {
	Result string
}

// RPCInvoker calls Host.Invoke on the host's net/rpc callback service.
type RPCInvoker struct {
	client *rpc.Client
}

func DialRPC(addr string) (*RPCInvoker, error) {
	client, err := rpc.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial host %s: %w", addr, err)
	}
	return &RPCInvoker{client: client}, nil
}

func (inv *RPCInvoker) Invoke(op string, payload string) (string, error) {
	args := InvokeArgs{ID: uuid.NewString(), Op: op, Payload: payload}
	var reply InvokeReply
	if err := inv.client.Call("Host.Invoke", args, &reply); err != nil {
		if errors.Is(err, rpc.ErrShutdown) {
			return "", ErrClosed
		}
		return "", fmt.Errorf("host %s (%s): %w", op, args.ID, err)
	}
	return reply.Result, nil
}

func (inv *RPCInvoker) Close() error {
	return inv.client.Close()
}

// Platform implements push.Platform through the host.
type Platform struct {
	Invoker Invoker
}

func (p Platform) RegisterForRemoteNotifications() {
	if _, err := p.Invoker.Invoke("registerForRemoteNotifications", "{}"); err != nil {
		log.Printf("[host] register for remote notifications: %v", err)
	}
}

// DelegateHandlerName names the handler that replays lifecycle events to the
// host application's own notification delegate.
const DelegateHandlerName = "host"

// DelegateHandler forwards lifecycle events to the host application's own
// delegate so it keeps seeing them after the vendor handler ran. Tokens are
// hex encoded like every other host op. For foreground pushes the host may
// answer with {"options":n}; those are merged with the vendor's options.
func DelegateHandler(inv Invoker) push.Handler {
	forward := func(kind string, set func(string) (string, error)) string {
		payload, err := sjson.Set("{}", "kind", kind)
		if err == nil && set != nil {
			payload, err = set(payload)
		}
		if err != nil {
			log.Printf("[host] encode %s: %v", kind, err)
			return ""
		}
		res, err := inv.Invoke("appDelegate", payload)
		if err != nil {
			log.Printf("[host] app delegate %s: %v", kind, err)
			return ""
		}
		return res
	}
	return push.Handler{
		Name: DelegateHandlerName,
		TokenRegistered: func(token []byte) {
			forward("didRegisterToken", func(p string) (string, error) {
				return sjson.Set(p, "token", hex.EncodeToString(token))
			})
		},
		RegistrationFailed: func(err error) {
			forward("didFailToRegister", func(p string) (string, error) {
				return sjson.Set(p, "error", err.Error())
			})
		},
		SettingsRegistered: func() {
			forward("didRegisterSettings", nil)
		},
		WillPresent: func(n push.Notification) emma.PresentationOptions {
			res := forward("willPresent", func(p string) (string, error) {
				return sjson.Set(p, "userInfo", n.UserInfo)
			})
			return emma.PresentationOptions(gjson.Get(res, "options").Uint())
		},
		DidReceive: func(r push.Response) {
			forward("didReceive", func(p string) (string, error) {
				p, err := sjson.Set(p, "userInfo", r.UserInfo)
				if err != nil {
					return p, err
				}
				return sjson.Set(p, "actionIdentifier", r.ActionIdentifier)
			})
		},
	}
}
