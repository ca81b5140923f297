package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
)

// CookieConfig holds the attributes shared by every session cookie. Setting and clearing
// a cookie use the same values so browsers match them.
type CookieConfig struct {
	Secure   bool
	Domain   string
	Path     string
	SameSite http.SameSite
}

// NewCookieConfig returns a CookieConfig rooted at "/".
func NewCookieConfig(secure bool, domain string, sameSite http.SameSite) CookieConfig {
	return CookieConfig{
		Secure:   secure,
		Domain:   domain,
		Path:     "/",
		SameSite: sameSite,
	}
}

func (cfg CookieConfig) write(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	})
}

// SetToken writes token under name with Max-Age derived from its expiry.
func (cfg CookieConfig) SetToken(c *gin.Context, name string, token *authDomain.IssuedToken, now time.Time) {
	maxAge := token.Claims.MaxAge(now)
	if maxAge == 0 {
		// A zero MaxAge would produce a session cookie; the token is already dead.
		maxAge = -1
	}
	cfg.write(c, name, token.Raw, maxAge)
}

// ClearSession expires both session cookies.
func (cfg CookieConfig) ClearSession(c *gin.Context) {
	cfg.write(c, authDomain.AccessTokenCookie, "", -1)
	cfg.write(c, authDomain.RefreshTokenCookie, "", -1)
}
