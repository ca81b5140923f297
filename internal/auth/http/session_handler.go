package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	"github.com/allisson/quizly/internal/auth/http/dto"
	authUseCase "github.com/allisson/quizly/internal/auth/usecase"
	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/httputil"
)

// SessionHandler handles the login, refresh and logout endpoints.
type SessionHandler struct {
	sessions authUseCase.SessionUseCase
	cookies  CookieConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(
	sessions authUseCase.SessionUseCase,
	cookies CookieConfig,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		cookies:  cookies,
		logger:   logger,
		now:      time.Now,
	}
}

// LoginHandler authenticates a user and sets both session cookies.
// POST /login - Returns 200 OK with the user projection.
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.Is(err, authDomain.ErrInvalidCredentials) {
			h.logger.Debug("login failed", slog.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, dto.MessageErrorResponse{Error: dto.MsgInvalidCredentials})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	now := h.now()
	h.cookies.SetToken(c, authDomain.AccessTokenCookie, output.Tokens.Access, now)
	h.cookies.SetToken(c, authDomain.RefreshTokenCookie, output.Tokens.Refresh, now)

	c.JSON(http.StatusOK, dto.MapPrincipalToLoginResponse(output.Principal))
}

// RefreshHandler mints a new access token from the refresh_token cookie.
// POST /token/refresh - Returns 200 OK. Only cookies for newly issued tokens are written.
func (h *SessionHandler) RefreshHandler(c *gin.Context) {
	raw, _ := c.Cookie(authDomain.RefreshTokenCookie)

	output, err := h.sessions.Refresh(c.Request.Context(), raw)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnauthorized) {
			h.logger.Debug("refresh rejected", slog.Any("error", err))
			c.JSON(http.StatusUnauthorized, dto.MessageErrorResponse{Error: dto.MsgInvalidRefreshToken})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	now := h.now()
	h.cookies.SetToken(c, authDomain.AccessTokenCookie, output.Access, now)
	if output.Refresh != nil {
		h.cookies.SetToken(c, authDomain.RefreshTokenCookie, output.Refresh, now)
	}

	c.JSON(http.StatusOK, dto.DetailResponse{Detail: dto.MsgTokenRefreshed})
}

// LogoutHandler revokes the refresh token and clears both cookies.
// POST /logout - Returns 200 OK. Cookies are cleared even when revocation fails.
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	raw, _ := c.Cookie(authDomain.RefreshTokenCookie)

	h.cookies.ClearSession(c)

	if err := h.sessions.Logout(c.Request.Context(), raw); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DetailResponse{Detail: dto.MsgLogoutSuccessful})
}
