package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/fourpics/internal/services/auth"
	"github.com/mcoot/fourpics/internal/services/game"
	"github.com/mcoot/fourpics/internal/web/handler"
	"github.com/mcoot/fourpics/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController *game.Controller
	StaticDir      string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the web routes on r. The play page's live updates come
// from the JSON API's event stream, which must be mounted alongside.
func Register(r *mux.Router, cfg RouterConfig) {
	web := r.NewRoute().Subrouter()

	// Apply global middleware to all routes
	web.Use(middleware.Recovery(cfg.Logger))
	web.Use(middleware.Logging(cfg.Logger))
	web.Use(middleware.Flash())

	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.GameController, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		web.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes (optional auth for showing player info in nav)
	public := web.NewRoute().Subrouter()
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Auth actions (no auth required)
	authRoutes := web.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/guest", authHandler.CreateGuest).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Play routes (require auth)
	play := web.PathPrefix("/play").Subrouter()
	play.Use(authMiddleware)
	play.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	play.HandleFunc("/{id}", gameHandler.View).Methods(http.MethodGet)
	play.HandleFunc("/{id}/drop", gameHandler.Drop).Methods(http.MethodPost)
	play.HandleFunc("/{id}/return", gameHandler.Return).Methods(http.MethodPost)
	play.HandleFunc("/{id}/reset", gameHandler.Reset).Methods(http.MethodPost)
	play.HandleFunc("/{id}/next", gameHandler.Next).Methods(http.MethodPost)
}
