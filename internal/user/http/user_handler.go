// Package http provides HTTP handlers for user-related operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/quizly/internal/httputil"
	"github.com/allisson/quizly/internal/user/http/dto"
	"github.com/allisson/quizly/internal/user/usecase"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// RegisterHandler creates a new account.
// POST /register - Returns 201 Created.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.RegisterUser(c.Request.Context(), req.ToRegisterUserInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user registered", slog.String("user_id", user.ID.String()))
	c.JSON(http.StatusCreated, dto.RegisterUserResponse{Detail: dto.MsgUserCreated})
}
