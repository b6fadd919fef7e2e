// Package trace carries a per-request trace id through the context so the
// access log and the authorization attempt log line up.
package trace

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

const Header = "X-Trace-ID"

func NewID() string {
	return uuid.NewString()
}

func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func From(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKey{}).(string); ok {
		return s
	}
	return ""
}
