// Package httputil holds the JSON error envelope and pagination helpers shared by
// the gin handlers.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/quizly/internal/errors"
)

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; an empty message echoes err.Error().
var errorMappings = []errorMapping{
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input", ""},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{
		apperrors.ErrUnauthorized, http.StatusUnauthorized, "not_authenticated",
		"Authentication credentials were not provided or are invalid",
	},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource"},
	{apperrors.ErrUnavailable, http.StatusBadGateway, "upstream_unavailable", "An upstream service failed to respond"},
}

// errorToResponse never exposes the text of unclassified errors.
func errorToResponse(err error) (int, ErrorResponse) {
	var validationErr *apperrors.ValidationError
	if apperrors.As(err, &validationErr) {
		return http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "One or more fields are invalid",
			Fields:  validationErr.Fields,
		}
	}

	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		return m.status, ErrorResponse{Error: m.code, Message: msg}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}
}

// HandleErrorGin writes the JSON answer for a use case error. 5xx answers are logged
// at error level and the rest at debug.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status, body := errorToResponse(err)

	if logger != nil {
		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", body.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(status, body)
}

// HandleForbiddenGin writes a 403 response with a caller-supplied message.
func HandleForbiddenGin(c *gin.Context, message string, logger *slog.Logger) {
	if logger != nil {
		logger.Debug("forbidden", slog.String("message", message))
	}

	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   "forbidden",
		Message: message,
	})
}

// HandleBadRequestGin answers 400 for bodies or parameters that could not be bound.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Debug("bad request", slog.Any("error", err))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
}
