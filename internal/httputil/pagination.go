package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/quizly/internal/errors"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ParsePagination parses the offset and limit query parameters. Offset defaults to 0
// and limit to 20; limit cannot exceed 100. Invalid values yield a field-level
// validation error keyed by the parameter name.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	verr := &apperrors.ValidationError{}

	offset, convErr := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if convErr != nil || offset < 0 {
		verr.Add("offset", "must be a non-negative integer")
	}

	limit, convErr = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if convErr != nil || limit < 1 || limit > maxLimit {
		verr.Add("limit", "must be between 1 and "+strconv.Itoa(maxLimit))
	}

	if verr.HasErrors() {
		return 0, 0, verr
	}
	return offset, limit, nil
}
