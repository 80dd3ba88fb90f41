package auth

import (
	"context"
	"testing"

	"github.com/pricewatch/pricewatch/internal/model"
)

func TestPrincipalFromContext(t *testing.T) {
	t.Parallel()

	if p := PrincipalFromContext(context.Background()); p != (model.Principal{}) {
		t.Fatalf("expected zero principal, got %+v", p)
	}

	ctx := ContextWithAuth(context.Background(), &model.AuthContext{
		KeyID:  "key-1",
		UserID: "user-1",
		Role:   model.RoleAdmin,
	})

	p := PrincipalFromContext(ctx)
	if p.UserID != "user-1" || !p.IsAdmin() {
		t.Fatalf("unexpected principal %+v", p)
	}
	if UserIDFromContext(ctx) != "user-1" {
		t.Fatalf("expected user-1, got %q", UserIDFromContext(ctx))
	}
}
