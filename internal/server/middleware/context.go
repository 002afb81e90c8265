package middleware

import (
	"context"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
)

type contextKey string

const ContextKeyAuthToken contextKey = "auth_token"

// WithToken returns a context carrying the verified caller identity.
func WithToken(ctx context.Context, token domain.AuthToken) context.Context {
	return context.WithValue(ctx, ContextKeyAuthToken, token)
}

func TokenFromContext(ctx context.Context) (domain.AuthToken, bool) {
	v, ok := ctx.Value(ContextKeyAuthToken).(domain.AuthToken)
	return v, ok
}
