package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/game"
	"github.com/mcoot/fourpics/internal/web/middleware"
	"github.com/mcoot/fourpics/internal/web/views"
)

// HomeHandler handles the home page
type HomeHandler struct {
	gameController *game.Controller
	logger         *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(gameController *game.Controller, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		gameController: gameController,
		logger:         logger,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	flash := middleware.GetFlash(r.Context())
	next := r.URL.Query().Get("next")

	var games []*model.Game
	if player != nil {
		var err error
		games, err = h.gameController.ListGames(r.Context(), player.ID)
		if err != nil {
			h.logger.Warn("failed to list games",
				slog.String("player_id", string(player.ID)),
				slog.String("error", err.Error()),
			)
		}
	}

	data := views.HomeData{
		PageData: views.PageData{
			Title:  "Home",
			Player: player,
			Flash:  flash,
		},
		Next:  next,
		Games: games,
	}

	render(w, r, http.StatusOK, views.Home(data))
}
