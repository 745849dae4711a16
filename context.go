package authbreaker

import "context"

type clientIPContextKey struct{}

// WithClientIP attaches the caller's network address to ctx. The hook
// adapters fall back to it when an event carries no usable identifier.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
