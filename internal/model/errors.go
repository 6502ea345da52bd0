package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrNotGameOwner    = errors.New("player does not own this game")
	ErrNoRound         = errors.New("game has no round in progress")
	ErrRoundSolved     = errors.New("round is already solved")
	ErrRoundSuperseded = errors.New("round was replaced while it was being fetched")

	// Puzzle errors
	ErrInvalidTile = errors.New("invalid tile")
	ErrTileUsed    = errors.New("tile is already placed")
	ErrInvalidSlot = errors.New("invalid slot")

	// Content errors
	ErrRoundUnavailable = errors.New("no suitable round found")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)

// AcquisitionStage names the fetch that failed while building a round
type AcquisitionStage string

const (
	StageWord   AcquisitionStage = "word"
	StagePhotos AcquisitionStage = "photos"
)

// AcquisitionError is a network or parse failure while fetching round content
type AcquisitionError struct {
	Stage AcquisitionStage
	Err   error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Stage, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
