package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/fourpics/internal/api/middleware"
	"github.com/mcoot/fourpics/internal/api/request"
	"github.com/mcoot/fourpics/internal/api/response"
	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/game"
	"github.com/mcoot/fourpics/internal/services/placement"
	"github.com/mcoot/fourpics/internal/web/sse"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
	hubManager     *sse.HubManager
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, hubManager *sse.HubManager) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		hubManager:     hubManager,
	}
}

func (h *GameHandler) gameResponse(g *model.Game) response.Game {
	return response.GameFromModel(g, h.gameController.Layout(g))
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.StartGame(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, h.gameResponse(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	games, err := h.gameController.ListGames(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.GameList{Games: make([]response.Game, len(games))}
	for i, g := range games {
		resp.Games[i] = h.gameResponse(g)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.GetGame(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.gameResponse(g))
}

// NextRound handles POST /api/v1/games/{id}/rounds
func (h *GameHandler) NextRound(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.NextRound(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, h.gameResponse(g))
}

// MoveTile handles POST /api/v1/games/{id}/tiles/{tile}/move
func (h *GameHandler) MoveTile(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	tile, err := pathInt(r, "tile")
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.MoveTileRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.MoveTile(r.Context(), gameID(r), player.ID, tile, model.Point{X: req.X, Y: req.Y})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.gameResponse(g))
}

// Drop handles POST /api/v1/games/{id}/drop
func (h *GameHandler) Drop(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.DropRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Tile == nil {
		WriteError(w, NewInvalidRequestError("tile is required"))
		return
	}

	var measurer placement.Measurer
	if geometry := req.Geometry(); geometry != nil {
		measurer = placement.SlotGeometry(geometry)
	}

	g, outcome, err := h.gameController.DropTile(r.Context(), gameID(r), player.ID, *req.Tile, model.Point{X: req.X, Y: req.Y}, measurer)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DropResponse{
		Outcome: response.DropOutcomeFromModel(outcome),
		Game:    h.gameResponse(g),
	})
}

// ReturnLetter handles POST /api/v1/games/{id}/slots/{slot}/return
func (h *GameHandler) ReturnLetter(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	slot, err := pathInt(r, "slot")
	if err != nil {
		WriteError(w, err)
		return
	}

	g, tile, err := h.gameController.ReturnLetter(r.Context(), gameID(r), player.ID, slot)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.ReturnResponse{Game: h.gameResponse(g)}
	if tile != model.Unassigned {
		resp.Returned = true
		resp.Tile = &tile
	}
	response.JSON(w, http.StatusOK, resp)
}

// Reset handles POST /api/v1/games/{id}/reset
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.ResetRound(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.gameResponse(g))
}

// Events handles GET /api/v1/games/{id}/events, streaming game events as SSE
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.GetGame(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(g.ID), player.ID)
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, NewInvalidRequestError(name + " must be an integer")
	}
	return n, nil
}
