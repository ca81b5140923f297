// Package http provides the session endpoints, credential extraction and access policies.
package http

import (
	"context"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// claimsKey is a context key type for storing the verified access token claims.
type claimsKey struct{}

// WithPrincipal stores the authenticated principal and its access token claims in the context.
func WithPrincipal(
	ctx context.Context,
	principal *authDomain.Principal,
	claims *authDomain.Claims,
) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, principal)
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok && principal != nil
}

// GetClaims retrieves the access token claims of the authenticated principal.
func GetClaims(ctx context.Context) (*authDomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authDomain.Claims)
	return claims, ok && claims != nil
}

// CurrentPrincipal returns the principal resolved for this request, if any.
func CurrentPrincipal(c *gin.Context) (*authDomain.Principal, bool) {
	return GetPrincipal(c.Request.Context())
}
