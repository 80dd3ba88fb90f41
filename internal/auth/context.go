package auth

import (
	"context"

	"github.com/pricewatch/pricewatch/internal/model"
)

type contextKey struct{}

// ContextWithAuth adds AuthContext to the context.
func ContextWithAuth(ctx context.Context, ac *model.AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext retrieves AuthContext from the context, or nil.
func FromContext(ctx context.Context) *model.AuthContext {
	ac, _ := ctx.Value(contextKey{}).(*model.AuthContext)
	return ac
}

// PrincipalFromContext returns the caller's identity. The zero Principal is
// returned for unauthenticated requests, which services reject as an invalid owner.
func PrincipalFromContext(ctx context.Context) model.Principal {
	ac := FromContext(ctx)
	if ac == nil {
		return model.Principal{}
	}
	return ac.Principal()
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	return PrincipalFromContext(ctx).UserID
}
