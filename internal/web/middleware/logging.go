package middleware

import (
	"log/slog"
	"net/http"

	shared "github.com/mcoot/fourpics/internal/middleware"
)

// Logging logs each page request, tagging the log with a request ID
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	log := shared.Logging(logger.With(slog.String("component", "web")))
	requestID := shared.RequestID()
	return func(next http.Handler) http.Handler {
		return requestID(log(next))
	}
}
