package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 12 * time.Hour

// createCORSMiddleware returns nil when CORS is disabled or no usable origins are configured.
//
// Sessions travel in cookies, so a browser frontend served from another origin needs
// credentials allowed and its origin listed explicitly. A "*" entry is ignored because
// browsers refuse credentialed responses for a wildcard origin.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured, CORS will not be applied")
		return nil
	}

	explicit := origins[:0]
	for _, origin := range origins {
		if origin == "*" {
			logger.Warn("ignoring wildcard CORS origin, credentialed requests need explicit origins")
			continue
		}
		explicit = append(explicit, origin)
	}
	if len(explicit) == 0 {
		return nil
	}

	logger.Info("CORS enabled", slog.Any("origins", explicit))

	return cors.New(cors.Config{
		AllowOrigins: explicit,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
		},
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
			"X-Request-Id",
		},
		ExposeHeaders: []string{
			"X-Request-Id",
		},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})
}

// parseOrigins splits a comma-separated origin list, dropping blanks and trailing slashes.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSuffix(strings.TrimSpace(part), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
