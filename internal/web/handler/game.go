package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/game"
	"github.com/mcoot/fourpics/internal/services/placement"
	"github.com/mcoot/fourpics/internal/web/middleware"
	"github.com/mcoot/fourpics/internal/web/views"
)

// GameHandler handles the play page and its form actions
type GameHandler struct {
	gameController *game.Controller
	logger         *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameController *game.Controller, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		logger:         logger,
	}
}

// Create starts a new game and opens its play page
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	g, err := h.gameController.StartGame(r.Context(), player.ID)
	if err != nil {
		middleware.SetFlash(w, "error", gameErrorMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, playPath(g.ID), http.StatusSeeOther)
}

// View renders the play page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	id := gameID(r)

	g, err := h.gameController.GetGame(r.Context(), id, player.ID)
	if err != nil {
		middleware.SetFlash(w, "error", gameErrorMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := views.PlayData{
		PageData: views.PageData{
			Title:  "Game " + string(g.ID),
			Player: player,
			Flash:  middleware.GetFlash(r.Context()),
		},
		Game: g,
	}
	render(w, r, http.StatusOK, views.Play(data))
}

// Drop places a tile. Without a slot field the tile goes to the first open
// slot; either way it is dropped on the slot's centre in the server layout.
func (h *GameHandler) Drop(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, id model.GameID, playerID model.PlayerID) (string, error) {
		tile, err := strconv.Atoi(r.FormValue("tile"))
		if err != nil {
			return "", model.ErrInvalidTile
		}

		g, err := h.gameController.GetGame(ctx, id, playerID)
		if err != nil {
			return "", err
		}
		if !g.HasRound() {
			return "", model.ErrNoRound
		}

		slot := firstOpenSlot(g.Puzzle)
		if raw := r.FormValue("slot"); raw != "" {
			if slot, err = strconv.Atoi(raw); err != nil || !g.Puzzle.IsValidSlot(slot) {
				return "", model.ErrInvalidSlot
			}
		}

		drop := h.gameController.Layout(g).Center(max(slot, 0))
		_, outcome, err := h.gameController.DropTile(ctx, id, playerID, tile, drop, nil)
		if err != nil {
			return "", err
		}
		if !outcome.Placed {
			return missMessage(outcome.Reason), nil
		}
		return "", nil
	})
}

// Return sends the letter in a slot back to the pool
func (h *GameHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, id model.GameID, playerID model.PlayerID) (string, error) {
		slot, err := strconv.Atoi(r.FormValue("slot"))
		if err != nil {
			return "", model.ErrInvalidSlot
		}
		_, _, err = h.gameController.ReturnLetter(ctx, id, playerID, slot)
		return "", err
	})
}

// Reset empties the answer row
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, id model.GameID, playerID model.PlayerID) (string, error) {
		_, err := h.gameController.ResetRound(ctx, id, playerID)
		return "", err
	})
}

// Next fetches a new round
func (h *GameHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, id model.GameID, playerID model.PlayerID) (string, error) {
		_, err := h.gameController.NextRound(ctx, id, playerID)
		return "", err
	})
}

// act runs a form action and redirects back to the play page. A non-empty
// notice is shown as an info flash, an error as an error flash.
func (h *GameHandler) act(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, id model.GameID, playerID model.PlayerID) (string, error),
) {
	player := middleware.GetPlayer(r.Context())
	id := gameID(r)

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, playPath(id), http.StatusSeeOther)
		return
	}

	notice, err := fn(r.Context(), id, player.ID)
	switch {
	case errors.Is(err, model.ErrGameNotFound), errors.Is(err, model.ErrNotGameOwner):
		middleware.SetFlash(w, "error", gameErrorMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case err != nil:
		h.logger.Debug("play action rejected",
			slog.String("game_id", string(id)),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		middleware.SetFlash(w, "error", gameErrorMessage(err))
	case notice != "":
		middleware.SetFlash(w, "info", notice)
	}
	http.Redirect(w, r, playPath(id), http.StatusSeeOther)
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

func playPath(id model.GameID) string {
	return "/play/" + string(id)
}

// firstOpenSlot returns the lowest empty slot, or Unassigned when the row is full
func firstOpenSlot(p *model.Puzzle) int {
	for i, s := range p.Slots {
		if !s.Filled {
			return i
		}
	}
	return model.Unassigned
}

func missMessage(reason placement.MissReason) string {
	switch reason {
	case placement.MissNoOpenSlot:
		return "Every slot is full. Tap a letter to take it back."
	default:
		return "That tile did not land on a slot."
	}
}

// gameErrorMessage turns controller errors into player-facing text
func gameErrorMessage(err error) string {
	var acqErr *model.AcquisitionError
	switch {
	case errors.As(err, &acqErr):
		return "Could not load a round: " + acqErr.Error()
	case errors.Is(err, model.ErrGameNotFound), errors.Is(err, model.ErrNotGameOwner):
		return "Game not found"
	case errors.Is(err, model.ErrNoRound):
		return "There is no round to play yet"
	case errors.Is(err, model.ErrRoundSolved):
		return "This round is already solved"
	case errors.Is(err, model.ErrRoundSuperseded):
		return "A new round started meanwhile"
	case errors.Is(err, model.ErrRoundUnavailable):
		return "No playable round could be found, try again"
	case errors.Is(err, model.ErrInvalidTile), errors.Is(err, model.ErrTileUsed):
		return "That tile cannot be placed"
	case errors.Is(err, model.ErrInvalidSlot):
		return "No such slot"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out waiting for a round"
	default:
		return "Something went wrong"
	}
}
