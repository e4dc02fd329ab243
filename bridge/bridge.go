// Bridge between Go and native code linking the plugin in-process.
//
// Like the RPC plugin process, it speaks a JSON command protocol: the native
// side calls Execute with a call name and a JSON argument bundle, and receives
// a JSON response. Vendor SDK calls and outbound channel messages go back
// through the Host registered with Init.

package bridge

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"emma-bridge-plugin/internal/channel"
	"emma-bridge-plugin/internal/emma/remote"
	"emma-bridge-plugin/internal/host"
	"emma-bridge-plugin/internal/mainthread"
	"emma-bridge-plugin/internal/plugin"
	"emma-bridge-plugin/internal/push"
	"emma-bridge-plugin/sdk"
)

// Host is implemented by the native side.
type Host interface {
	Invoke(op string, payload string) (string, error)
}

var (
	mu      sync.Mutex       //nolint:gochecknoglobals
	current *plugin.Plugin   //nolint:gochecknoglobals
	ui      *mainthread.Loop //nolint:gochecknoglobals
)

// Init builds the plugin around h. Calling it again replaces the previous
// instance.
func Init(h Host) {
	mu.Lock()
	defer mu.Unlock()
	if ui != nil {
		ui.Close()
	}
	ui = mainthread.NewLoop()
	go ui.Run(context.Background())

	var inv host.Invoker = h
	current = plugin.New(plugin.Options{
		SDK:      remote.New(inv),
		Channel:  channel.New(inv),
		UI:       ui,
		Platform: host.Platform{Invoker: inv},
		Handlers: []push.Handler{host.DelegateHandler(inv)},
	})
}

// Shutdown drops the plugin instance and stops its UI loop.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if ui != nil {
		ui.Close()
	}
	ui = nil
	current = nil
}

func instance() *plugin.Plugin {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Execute runs one channel call. argsJSON may be empty for calls without
// arguments.
func Execute(method string, argsJSON string) string {
	p := instance()
	if p == nil {
		return errorResponse("NOT_INITIALIZED", "bridge not initialised")
	}
	args, ok := decodeArgs(argsJSON)
	if !ok {
		return errorResponse("BAD_ARGS", "Failed to parse arguments")
	}
	var res sdk.Response
	if err := p.CallMethod(sdk.Request{Method: method, Args: args}, &res); err != nil {
		return errorResponse("INTERNAL", err.Error())
	}
	return encodeResponse(res)
}

// Lifecycle forwards one host lifecycle event.
func Lifecycle(eventJSON string) string {
	p := instance()
	if p == nil {
		return ackError("bridge not initialised")
	}
	if !gjson.Valid(eventJSON) {
		return ackError("Failed to parse lifecycle event")
	}
	doc := gjson.Parse(eventJSON)
	ev := sdk.LifecycleEvent{
		Kind:             doc.Get("kind").String(),
		Error:            doc.Get("error").String(),
		ActionIdentifier: doc.Get("actionIdentifier").String(),
	}
	if tok := doc.Get("token"); tok.Exists() {
		b, err := base64.StdEncoding.DecodeString(tok.String())
		if err != nil {
			return ackError("Failed to decode token: " + err.Error())
		}
		ev.Token = b
	}
	if info, ok := doc.Get("userInfo").Value().(map[string]any); ok {
		ev.UserInfo = info
	}
	var ack sdk.LifecycleAck
	if err := p.HandleLifecycle(ev, &ack); err != nil {
		return ackError(err.Error())
	}
	return encodeAck(ack)
}

// Callback delivers a vendor SDK callback, e.g. received native ads.
func Callback(name string, payloadJSON string) string {
	p := instance()
	if p == nil {
		return ackError("bridge not initialised")
	}
	var ack sdk.LifecycleAck
	if err := p.HandleCallback(sdk.Callback{Name: name, Payload: payloadJSON}, &ack); err != nil {
		return ackError(err.Error())
	}
	return encodeAck(ack)
}

func decodeArgs(argsJSON string) (map[string]any, bool) {
	if argsJSON == "" {
		return nil, true
	}
	if !gjson.Valid(argsJSON) {
		return nil, false
	}
	// Non-object bundles decode to nil and fail validation like a missing one.
	args, _ := gjson.Parse(argsJSON).Value().(map[string]any)
	return args, true
}

func encodeResponse(res sdk.Response) string {
	out, err := sjson.Set("{}", "success", res.Success)
	if err != nil {
		return fallbackResponse
	}
	if res.NotImplemented {
		out, err = sjson.Set(out, "notImplemented", true)
	}
	if err == nil && res.Code != "" {
		out, err = sjson.Set(out, "code", res.Code)
	}
	if err == nil && res.Error != "" {
		out, err = sjson.Set(out, "error", res.Error)
	}
	if err == nil && res.Data != nil {
		out, err = sjson.Set(out, "data", res.Data)
	}
	if err != nil {
		return fallbackResponse
	}
	return out
}

const fallbackResponse = `{"success":false,"code":"INTERNAL","error":"Failed to marshal response"}`

func errorResponse(code, message string) string {
	return encodeResponse(sdk.Response{Success: false, Code: code, Error: message})
}

func encodeAck(ack sdk.LifecycleAck) string {
	out, err := sjson.Set("{}", "handled", ack.Handled)
	if err == nil && ack.Options != 0 {
		out, err = sjson.Set(out, "options", ack.Options)
	}
	if err == nil && ack.Error != "" {
		out, err = sjson.Set(out, "error", ack.Error)
	}
	if err != nil {
		return `{"handled":false,"error":"Failed to marshal response"}`
	}
	return out
}

func ackError(message string) string {
	return encodeAck(sdk.LifecycleAck{Error: message})
}
