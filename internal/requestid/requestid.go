// Package requestid carries the per-request correlation id through a context
// so outbound API calls can forward it.
package requestid

import "context"

// Header is the standard header name used to propagate request IDs.
const Header = "X-Request-ID"

type ctxKey struct{}

// With returns a copy of ctx carrying id.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the id stored in ctx, or "" when there is none.
func From(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
