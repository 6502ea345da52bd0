package response

import (
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/auth"
	"github.com/mcoot/fourpics/internal/services/placement"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Point is a position in page coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a slot rectangle of the server-side layout
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Photo is one hint image
type Photo struct {
	URL          string `json:"url"`
	Alt          string `json:"alt,omitempty"`
	Photographer string `json:"photographer,omitempty"`
}

// Round is the public view of a round; the word is only shown once solved
type Round struct {
	ID         string  `json:"id"`
	WordLength int     `json:"word_length"`
	Word       string  `json:"word,omitempty"`
	Photos     []Photo `json:"photos"`
}

// Slot is one answer slot
type Slot struct {
	Filled bool   `json:"filled"`
	Letter string `json:"letter,omitempty"`
	Tile   *int   `json:"tile,omitempty"`
}

// Tile is one tile of the pool
type Tile struct {
	Letter string `json:"letter"`
	Used   bool   `json:"used"`
	Offset Point  `json:"offset"`
}

// Puzzle is the answer state of the current round
type Puzzle struct {
	Slots  []Slot `json:"slots"`
	Tiles  []Tile `json:"tiles"`
	Phase  string `json:"phase"`
	Result string `json:"result"`
	Answer string `json:"answer"`
}

// Game represents a game in API responses
type Game struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	Generation   int       `json:"generation"`
	RoundsPlayed int       `json:"rounds_played"`
	RoundsSolved int       `json:"rounds_solved"`
	LastError    string    `json:"last_error,omitempty"`
	Round        *Round    `json:"round,omitempty"`
	Puzzle       *Puzzle   `json:"puzzle,omitempty"`
	Layout       []Rect    `json:"layout,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GameFromModel converts model.Game. layout is the server-side slot row
// drops are resolved against when the client sends no geometry.
func GameFromModel(g *model.Game, layout placement.Layout) Game {
	resp := Game{
		ID:           string(g.ID),
		Status:       string(g.Status),
		Generation:   g.Generation,
		RoundsPlayed: g.RoundsPlayed,
		RoundsSolved: g.RoundsSolved,
		LastError:    g.LastError,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
	if !g.HasRound() {
		return resp
	}

	round := &Round{
		ID:         string(g.Round.ID),
		WordLength: g.Round.WordLength(),
		Photos: lo.Map(g.Round.Photos, func(p model.Photo, _ int) Photo {
			return Photo{URL: p.URL, Alt: p.Alt, Photographer: p.Photographer}
		}),
	}
	if g.Puzzle.Result == model.ValidationCorrect {
		round.Word = g.Round.Word
	}
	resp.Round = round
	resp.Puzzle = PuzzleFromModel(g.Puzzle)
	resp.Layout = lo.Times(g.Puzzle.SlotCount(), func(i int) Rect {
		r := layout.Rect(i)
		return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	})
	return resp
}

// PuzzleFromModel converts model.Puzzle
func PuzzleFromModel(p *model.Puzzle) *Puzzle {
	slots := lo.Map(p.Slots, func(s model.SlotState, i int) Slot {
		slot := Slot{Filled: s.Filled}
		if s.Filled {
			slot.Letter = string(s.Letter)
			tile := p.TileInSlot(i)
			slot.Tile = &tile
		}
		return slot
	})
	tiles := lo.Map(p.Tiles, func(t model.TileState, _ int) Tile {
		return Tile{
			Letter: string(t.Letter),
			Used:   t.Used,
			Offset: Point{X: t.Offset.X, Y: t.Offset.Y},
		}
	})
	return &Puzzle{
		Slots:  slots,
		Tiles:  tiles,
		Phase:  string(p.Phase()),
		Result: string(p.Result),
		Answer: p.Answer(),
	}
}

// GameList is the response for listing games
type GameList struct {
	Games []Game `json:"games"`
}

// DropOutcome describes where a dropped tile went
type DropOutcome struct {
	Placed   bool    `json:"placed"`
	Tile     int     `json:"tile"`
	Slot     *int    `json:"slot,omitempty"`
	Distance float64 `json:"distance"`
	Reason   string  `json:"reason,omitempty"`
	Result   string  `json:"result"`
}

// DropOutcomeFromModel converts placement.DropOutcome
func DropOutcomeFromModel(o placement.DropOutcome) DropOutcome {
	resp := DropOutcome{
		Placed:   o.Placed,
		Tile:     o.Tile,
		Distance: o.Distance,
		Reason:   string(o.Reason),
		Result:   string(o.Result),
	}
	if o.Slot != model.Unassigned {
		slot := o.Slot
		resp.Slot = &slot
	}
	return resp
}

// DropResponse is the response after dropping a tile
type DropResponse struct {
	Outcome DropOutcome `json:"outcome"`
	Game    Game        `json:"game"`
}

// ReturnResponse is the response after returning a letter to the pool
type ReturnResponse struct {
	Returned bool `json:"returned"`
	Tile     *int `json:"tile,omitempty"`
	Game     Game `json:"game"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
