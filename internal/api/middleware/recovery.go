package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/fourpics/internal/api/apierr"
	shared "github.com/mcoot/fourpics/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// Returns JSON error responses on panic.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return shared.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}

// Logging logs each API request with its request ID
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	log := shared.Logging(logger.With(slog.String("component", "api")))
	requestID := shared.RequestID()
	return func(next http.Handler) http.Handler {
		return requestID(log(next))
	}
}
