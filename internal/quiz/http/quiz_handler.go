// Package http provides HTTP handlers for quiz generation and quiz access.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	authHTTP "github.com/allisson/quizly/internal/auth/http"
	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/httputil"
	"github.com/allisson/quizly/internal/quiz/domain"
	"github.com/allisson/quizly/internal/quiz/http/dto"
	"github.com/allisson/quizly/internal/quiz/usecase"
)

// QuizHandler handles quiz HTTP requests. Every route expects an authenticated principal.
type QuizHandler struct {
	quizUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizUseCase usecase.UseCase, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{
		quizUseCase: quizUseCase,
		logger:      logger,
	}
}

// CreateHandler generates a quiz from a video URL.
// POST /createQuiz - Returns 201 Created with the quiz.
func (h *QuizHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.CurrentPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrNotAuthenticated, h.logger)
		return
	}

	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	quiz, err := h.quizUseCase.CreateFromVideo(c.Request.Context(), req.ToCreateQuizInput(principal.ID))
	if err != nil {
		if apperrors.Is(err, domain.ErrNotQuizOwner) {
			httputil.HandleForbiddenGin(c, authHTTP.MsgOwnerOnly, h.logger)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapQuizToResponse(quiz))
}

// ListHandler lists quizzes with offset/limit pagination.
// GET /quizzes - Returns 200 OK with a list of quizzes.
func (h *QuizHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	quizzes, err := h.quizUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapQuizzesToResponse(quizzes))
}

// GetHandler returns one quiz.
// GET /quizzes/:id - Returns 200 OK with the quiz.
func (h *QuizHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	quiz, err := h.quizUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapQuizToResponse(quiz))
}

// UpdateHandler changes title and description. Only the owner may update a quiz.
// PATCH /quizzes/:id - Returns 200 OK with the updated quiz.
func (h *QuizHandler) UpdateHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	quiz, err := h.quizUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !authHTTP.Authorize(c, quiz.OwnerID, h.logger) {
		return
	}

	var req dto.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	updated, err := h.quizUseCase.Update(c.Request.Context(), id, req.ToUpdateQuizInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapQuizToResponse(updated))
}

func (h *QuizHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.NewValidationError("id", "must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
