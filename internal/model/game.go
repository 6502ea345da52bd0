package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	GameStatusPlaying GameStatus = "playing" // Round in progress
	GameStatusSolved  GameStatus = "solved"  // Current round answered correctly
	GameStatusFailed  GameStatus = "failed"  // Last round fetch failed, see LastError
)

// Game is one player's run of rounds
type Game struct {
	ID       GameID
	PlayerID PlayerID
	Status   GameStatus

	Round  *Round
	Puzzle *Puzzle

	// Generation increases every time a new round is applied. A fetch started
	// against an older generation must not replace the current round.
	Generation int

	RoundsPlayed int
	RoundsSolved int
	LastError    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if the player owns the game
func (g *Game) IsOwnedBy(playerID PlayerID) bool {
	return g.PlayerID == playerID
}

// HasRound returns true if a round has been applied to the game
func (g *Game) HasRound() bool {
	return g.Round != nil && g.Puzzle != nil
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Round = g.Round.Clone()
	c.Puzzle = g.Puzzle.Clone()
	return &c
}
