package middleware

import (
	"context"

	"github.com/filmharbor/festival-backend/pkg/db/models"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// WithPrincipal injects the authenticated principal into the context.
func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	if ctx == nil {
		return models.Principal{}, false
	}
	principal, ok := ctx.Value(ctxPrincipal).(models.Principal)
	return principal, ok
}
