package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case DropResult:
		o.printDropResult(v)
	case ReturnResult:
		o.printReturnResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Rect is a slot rectangle of the server layout
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the middle of the rectangle
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Photo response type
type Photo struct {
	URL          string `json:"url"`
	Alt          string `json:"alt,omitempty"`
	Photographer string `json:"photographer,omitempty"`
}

// Round response type
type Round struct {
	ID         string  `json:"id"`
	WordLength int     `json:"word_length"`
	Word       string  `json:"word,omitempty"`
	Photos     []Photo `json:"photos"`
}

// Slot response type
type Slot struct {
	Filled bool   `json:"filled"`
	Letter string `json:"letter,omitempty"`
	Tile   *int   `json:"tile,omitempty"`
}

// Tile response type
type Tile struct {
	Letter string `json:"letter"`
	Used   bool   `json:"used"`
	Offset struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"offset"`
}

// Puzzle response type
type Puzzle struct {
	Slots  []Slot `json:"slots"`
	Tiles  []Tile `json:"tiles"`
	Phase  string `json:"phase"`
	Result string `json:"result"`
	Answer string `json:"answer"`
}

// Game response type
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

// FirstOpenSlot returns the lowest empty slot, or -1
func (g Game) FirstOpenSlot() int {
	if g.Puzzle == nil {
		return -1
	}
	for i, s := range g.Puzzle.Slots {
		if !s.Filled {
			return i
		}
	}
	return -1
}

// GameList response type
type GameList struct {
	Games []Game `json:"games"`
}

// DropOutcome response type
type DropOutcome struct {
	Placed   bool    `json:"placed"`
	Tile     int     `json:"tile"`
	Slot     *int    `json:"slot,omitempty"`
	Distance float64 `json:"distance"`
	Reason   string  `json:"reason,omitempty"`
	Result   string  `json:"result"`
}

// DropResult response type
type DropResult struct {
	Outcome DropOutcome `json:"outcome"`
	Game    Game        `json:"game"`
}

// ReturnResult response type
type ReturnResult struct {
	Returned bool `json:"returned"`
	Tile     *int `json:"tile,omitempty"`
	Game     Game `json:"game"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	o.printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	o.printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	o.printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	o.printf("Game: %s\n", g.ID)
	o.printf("Status: %s\n", g.Status)
	o.printf("Rounds: %d played, %d solved\n", g.RoundsPlayed, g.RoundsSolved)
	if g.LastError != "" {
		o.printf("Last error: %s\n", g.LastError)
	}
	if g.Round == nil || g.Puzzle == nil {
		return
	}

	o.printf("\nPhotos:\n")
	for _, p := range g.Round.Photos {
		o.printf("  %s\n", p.URL)
	}

	o.printf("\nAnswer: ")
	o.printSlots(g.Puzzle.Slots)
	o.printf("  (%s", g.Puzzle.Phase)
	if g.Puzzle.Result != "unknown" {
		o.printf(", %s", g.Puzzle.Result)
	}
	o.printf(")\n")

	o.printf("Tiles:  ")
	o.printTiles(g.Puzzle.Tiles)
	o.printf("\n")

	if g.Round.Word != "" {
		o.printf("\nSolved! The word was %s\n", g.Round.Word)
	}
}

func (o *Output) printSlots(slots []Slot) {
	for _, s := range slots {
		letter := " "
		if s.Filled {
			letter = s.Letter
		}
		o.printf("[%s]", letter)
	}
}

// printTiles lists tiles as index:letter, used tiles in parentheses
func (o *Output) printTiles(tiles []Tile) {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		if t.Used {
			parts[i] = fmt.Sprintf("(%d:%s)", i, t.Letter)
		} else {
			parts[i] = fmt.Sprintf("%d:%s", i, t.Letter)
		}
	}
	o.printf("%s", strings.Join(parts, " "))
}

func (o *Output) printGameList(l GameList) {
	if len(l.Games) == 0 {
		o.printf("No games\n")
		return
	}
	for _, g := range l.Games {
		o.printf("%s  %-8s  %d/%d solved\n", g.ID, g.Status, g.RoundsSolved, g.RoundsPlayed)
	}
}

func (o *Output) printDropResult(d DropResult) {
	switch {
	case d.Outcome.Placed && d.Outcome.Slot != nil:
		o.printf("Tile %d placed in slot %d\n", d.Outcome.Tile, *d.Outcome.Slot)
	default:
		o.printf("Tile %d missed (%s)\n", d.Outcome.Tile, d.Outcome.Reason)
	}
	switch d.Outcome.Result {
	case "correct":
		o.printf("Correct!\n")
	case "incorrect":
		o.printf("Not quite\n")
	}
	o.printf("\n")
	o.printGame(d.Game)
}

func (o *Output) printReturnResult(r ReturnResult) {
	if r.Returned && r.Tile != nil {
		o.printf("Tile %d returned to the pool\n", *r.Tile)
	} else {
		o.printf("Slot was already empty\n")
	}
	o.printf("\n")
	o.printGame(r.Game)
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s\n", h.Status)
}
