package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is someone who owns games
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players
	CreatedAt   time.Time
}

// RegisteredPlayer holds login data for a non-guest player.
// Kept apart from Player so the hash never travels with a session.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // immutable
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
