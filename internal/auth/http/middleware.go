package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	authService "github.com/allisson/quizly/internal/auth/service"
	authUseCase "github.com/allisson/quizly/internal/auth/usecase"
	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/httputil"
)

// MsgOwnerOnly is returned when a non-owner attempts to modify a quiz.
const MsgOwnerOnly = "Only the Owner of Quiz can do changes."

const (
	credentialSourceCookie = "cookie"
	credentialSourceHeader = "header"
)

// AuthenticationMiddleware resolves the request principal from the access token.
//
// The access_token cookie is consulted first. Only when no cookie is sent does the
// middleware fall back to an "Authorization: Bearer <token>" header (case-insensitive
// scheme). A request without any credential continues anonymously.
//
// A credential that fails validation (bad signature, expired, wrong type, unknown
// subject) is handled according to strict:
//   - false: the request continues anonymously and policies decide later
//   - true: 401 Unauthorized immediately
//
// Store failures during principal lookup always produce 500.
func AuthenticationMiddleware(
	sessions authUseCase.SessionUseCase,
	codec authService.TokenCodec,
	strict bool,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, source := extractCredential(c)
		if source == "" {
			c.Next()
			return
		}

		principal, claims, err := sessions.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrUnauthorized) {
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}

			logRejectedCredential(logger, codec, raw, source, err)
			if strict {
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal, claims))

		logger.Debug("authentication successful",
			slog.String("user_id", principal.ID.String()),
			slog.String("source", source))

		c.Next()
	}
}

// extractCredential returns the raw access token and where it came from. An empty
// source means no credential was presented.
func extractCredential(c *gin.Context) (string, string) {
	if raw, err := c.Cookie(authDomain.AccessTokenCookie); err == nil && raw != "" {
		return raw, credentialSourceCookie
	}

	header := c.GetHeader("Authorization")
	const bearerPrefix = "bearer "
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), credentialSourceHeader
}

func logRejectedCredential(
	logger *slog.Logger,
	codec authService.TokenCodec,
	raw, source string,
	err error,
) {
	attrs := []any{
		slog.String("source", source),
		slog.String("error", err.Error()),
	}
	if claims, decodeErr := codec.DecodeClaims(raw); decodeErr == nil {
		attrs = append(attrs,
			slog.String("claimed_subject", claims.Subject.String()),
			slog.String("jti", claims.ID))
	}
	logger.Debug("authentication credential rejected", attrs...)
}

// RequireAuthenticated rejects requests without a resolved principal with 401.
func RequireAuthenticated(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			logger.Debug("access denied: not authenticated", slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, authDomain.ErrNotAuthenticated, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// LogoutAccess admits a request that carries a non-empty refresh_token cookie or was
// authenticated with a valid access token. The refresh cookie's validity is left to the
// logout itself.
func LogoutAccess(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(authDomain.RefreshTokenCookie); err == nil && raw != "" {
			c.Next()
			return
		}
		if _, ok := CurrentPrincipal(c); ok {
			c.Next()
			return
		}

		logger.Debug("logout denied: no session credential")
		httputil.HandleErrorGin(c, authDomain.ErrNotAuthenticated, logger)
		c.Abort()
	}
}

// RefreshAccess admits a request only when a refresh_token cookie is present.
func RefreshAccess(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(authDomain.RefreshTokenCookie); err == nil && raw != "" {
			c.Next()
			return
		}

		logger.Debug("refresh denied: missing refresh cookie")
		httputil.HandleErrorGin(c, authDomain.ErrNotAuthenticated, logger)
		c.Abort()
	}
}

// Authorize applies the owner-or-read-only rule to an object owned by ownerID. Safe
// methods are always allowed. Other methods require the current principal to be the
// owner; an object without owner can not be modified. When the check fails the error
// response is written and false is returned.
func Authorize(c *gin.Context, ownerID *uuid.UUID, logger *slog.Logger) bool {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotAuthenticated, logger)
		return false
	}

	if ownerID == nil || *ownerID != principal.ID {
		httputil.HandleForbiddenGin(c, MsgOwnerOnly, logger)
		return false
	}
	return true
}
