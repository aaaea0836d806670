package session

import "context"

type contextKey string

const claimsContextKey contextKey = "sessionClaims"

// WithClaims returns a copy of ctx carrying verified session claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// FromContext returns the verified claims placed by the session middleware.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
