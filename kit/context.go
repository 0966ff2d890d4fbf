// Package kit holds small cross-cutting helpers: request-scoped context keys
// and transport adapters shared by the HTTP relay and the MCP surface.
package kit

import "context"

type contextKey string

const (
	RequestIDKey    contextKey = "kit_request_id"
	TransportKey    contextKey = "kit_transport" // "http", "mcp", "cli"
	ConversionIDKey contextKey = "kit_conversion_id"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "cli"
}

func WithConversionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ConversionIDKey, id)
}
func GetConversionID(ctx context.Context) string {
	v, _ := ctx.Value(ConversionIDKey).(string)
	return v
}
