package sse

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/fourpics/internal/model"
)

// EventData is one encoded SSE event
type EventData struct {
	EventName string
	Data      string
}

// WireEvent is the JSON shape of a game event on the stream
type WireEvent struct {
	Type      model.EventType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	GameID    model.GameID    `json:"game_id"`
	PlayerID  model.PlayerID  `json:"player_id"`
	Payload   any             `json:"payload,omitempty"`
}

type roundStartedWire struct {
	RoundID    model.RoundID `json:"round_id"`
	Generation int           `json:"generation"`
	WordLength int           `json:"word_length"`
	Tiles      []string      `json:"tiles"`
	PhotoURLs  []string      `json:"photo_urls"`
}

type letterWire struct {
	Tile     int     `json:"tile"`
	Slot     int     `json:"slot"`
	Letter   string  `json:"letter"`
	Distance float64 `json:"distance,omitempty"`
}

type dropMissedWire struct {
	Tile     int     `json:"tile"`
	Reason   string  `json:"reason"`
	Distance float64 `json:"distance,omitempty"`
}

type roundSolvedWire struct {
	RoundID      model.RoundID `json:"round_id"`
	Word         string        `json:"word"`
	RoundsSolved int           `json:"rounds_solved"`
}

type roundIncorrectWire struct {
	Answer string `json:"answer"`
}

type roundFailedWire struct {
	Stage model.AcquisitionStage `json:"stage,omitempty"`
	Error string                 `json:"error"`
}

// Renderer converts model events to SSE event data
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderEvent encodes a game event as an SSE event named after its type
func (r *Renderer) RenderEvent(event model.Event) (EventData, error) {
	data, err := json.Marshal(WireEvent{
		Type:      event.Type,
		Timestamp: event.Timestamp,
		GameID:    event.GameID,
		PlayerID:  event.PlayerID,
		Payload:   wirePayload(event.Payload),
	})
	if err != nil {
		return EventData{}, err
	}
	return EventData{EventName: string(event.Type), Data: string(data)}, nil
}

// wirePayload spells letters as strings rather than code points
func wirePayload(payload any) any {
	switch p := payload.(type) {
	case model.RoundStartedPayload:
		return roundStartedWire{
			RoundID:    p.RoundID,
			Generation: p.Generation,
			WordLength: p.WordLength,
			Tiles:      lo.Map(p.Tiles, func(r rune, _ int) string { return string(r) }),
			PhotoURLs:  p.PhotoURLs,
		}
	case model.LetterPlacedPayload:
		return letterWire{Tile: p.Tile, Slot: p.Slot, Letter: string(p.Letter), Distance: p.Distance}
	case model.LetterReturnedPayload:
		return letterWire{Tile: p.Tile, Slot: p.Slot, Letter: string(p.Letter)}
	case model.DropMissedPayload:
		return dropMissedWire{Tile: p.Tile, Reason: p.Reason, Distance: p.Distance}
	case model.RoundSolvedPayload:
		return roundSolvedWire{RoundID: p.RoundID, Word: p.Word, RoundsSolved: p.RoundsSolved}
	case model.RoundIncorrectPayload:
		return roundIncorrectWire{Answer: p.Answer}
	case model.RoundFailedPayload:
		return roundFailedWire{Stage: p.Stage, Error: p.Error}
	default:
		return payload
	}
}
