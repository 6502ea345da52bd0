package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventRoundStarted   EventType = "round_started"
	EventLetterPlaced   EventType = "letter_placed"
	EventDropMissed     EventType = "drop_missed"
	EventLetterReturned EventType = "letter_returned"
	EventRoundReset     EventType = "round_reset"
	EventRoundSolved    EventType = "round_solved"
	EventRoundIncorrect EventType = "round_incorrect"
	EventRoundFailed    EventType = "round_failed"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	PlayerID  PlayerID // The player who triggered the event
	Payload   any      // Type-specific data
}

// RoundStartedPayload contains data for round started events
type RoundStartedPayload struct {
	RoundID    RoundID
	Generation int
	WordLength int
	Tiles      []rune
	PhotoURLs  []string
}

// LetterPlacedPayload contains data for letter placed events
type LetterPlacedPayload struct {
	Tile     int
	Slot     int
	Letter   rune
	Distance float64
}

// DropMissedPayload contains data for drops that did not land in a slot
type DropMissedPayload struct {
	Tile     int
	Reason   string
	Distance float64
}

// LetterReturnedPayload contains data for letter returned events
type LetterReturnedPayload struct {
	Tile   int
	Slot   int
	Letter rune
}

// RoundSolvedPayload contains data for round solved events
type RoundSolvedPayload struct {
	RoundID      RoundID
	Word         string
	RoundsSolved int
}

// RoundIncorrectPayload contains data for a full but wrong answer row
type RoundIncorrectPayload struct {
	Answer string
}

// RoundFailedPayload contains data for a failed round fetch
type RoundFailedPayload struct {
	Stage AcquisitionStage
	Error string
}
