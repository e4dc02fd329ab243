package router

import (
	"context"
	"log"

	"emma-bridge-plugin/sdk"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "emma-bridge-plugin/router"

// Router validates inbound calls and drives the vendor SDK.
type Router struct {
	env    Env
	tracer trace.Tracer
}

func New(env Env) *Router {
	return &Router{env: env, tracer: otel.Tracer(tracerName)}
}

// WithTracer replaces the tracer taken from the global provider.
func (r *Router) WithTracer(tp trace.TracerProvider) *Router {
	r.tracer = tp.Tracer(tracerName)
	return r
}

// Handle runs one call to completion. Validation failures never reach the
// vendor SDK.
func (r *Router) Handle(ctx context.Context, method string, args map[string]any) sdk.Response {
	_, span := r.tracer.Start(ctx, "router."+method,
		trace.WithAttributes(attribute.String("emma.method", method)))
	defer span.End()

	cmd, ok, verr := Decode(method, args)
	if !ok {
		span.SetAttributes(attribute.Bool("emma.not_implemented", true))
		log.Printf("[router] %s: not implemented", method)
		return sdk.Response{Success: false, NotImplemented: true, Error: "method not implemented: " + method}
	}
	if verr != nil {
		span.SetAttributes(attribute.String("emma.code", string(verr.Code)))
		span.SetStatus(codes.Error, verr.Message)
		log.Printf("[router] %s rejected: %s", method, verr)
		return sdk.Response{Success: false, Code: string(verr.Code), Error: verr.Message}
	}

	data := cmd.run(r.env)
	return sdk.Response{Success: true, Data: data}
}
