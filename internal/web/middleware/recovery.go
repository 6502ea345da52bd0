package middleware

import (
	"log/slog"
	"net/http"

	shared "github.com/mcoot/fourpics/internal/middleware"
	"github.com/mcoot/fourpics/internal/web/views"
)

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return shared.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	page := views.ErrorPage(views.PageData{Title: "Internal Server Error"}, "Something went wrong. Please try again later.")
	_ = page.Render(r.Context(), w)
}
