package httpx

import (
	"context"

	"github.com/ZinoChan/LangRhythms/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// Identity is the caller proven by a valid access token.
type Identity struct {
	Email  string
	Claims *auth.Claims
	// FromCookie is set when the token arrived in the access_token cookie
	// rather than the Authorization header.
	FromCookie bool
}

type identityKey struct{}

// WithIdentity returns a child context carrying id. A nil id leaves ctx unchanged.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	if id == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// RequestIDFromContext returns the id assigned by middleware.RequestID.
func RequestIDFromContext(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}
