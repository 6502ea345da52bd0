package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Unassigned marks a tile that is not sitting in any answer slot
const Unassigned = -1

// ValidationResult is the outcome of checking the answer row
type ValidationResult string

const (
	ValidationUnknown   ValidationResult = "unknown" // Not every slot is filled
	ValidationCorrect   ValidationResult = "correct"
	ValidationIncorrect ValidationResult = "incorrect"
)

// PuzzlePhase summarises how far the answer row has progressed
type PuzzlePhase string

const (
	PhaseEmpty     PuzzlePhase = "empty"
	PhasePartial   PuzzlePhase = "partial"
	PhaseFull      PuzzlePhase = "full" // Full but not yet validated
	PhaseCorrect   PuzzlePhase = "correct"
	PhaseIncorrect PuzzlePhase = "incorrect"
)

// SlotState is one answer slot. Filled is true exactly when Letter is set.
type SlotState struct {
	Filled bool
	Letter rune
}

// TileState is one tile of the scramble pool
type TileState struct {
	Letter rune
	Used   bool  // Sitting in an answer slot, not draggable
	Offset Point // Current drag translation from the tile's origin
}

// Puzzle is the answer state of a round: slots, tiles and the tile -> slot
// assignment. Every filled slot has exactly one used tile assigned to it.
type Puzzle struct {
	Word       string
	Slots      []SlotState
	Tiles      []TileState
	Assignment []int // Indexed by tile, value is a slot index or Unassigned
	Result     ValidationResult
}

// NewPuzzle creates an empty answer state for a word and its tile pool
func NewPuzzle(word string, tiles []rune) *Puzzle {
	p := &Puzzle{
		Word:  word,
		Tiles: make([]TileState, len(tiles)),
	}
	for i, letter := range tiles {
		p.Tiles[i].Letter = letter
	}
	p.Clear()
	return p
}

// Clear empties every slot and returns every tile to the pool
func (p *Puzzle) Clear() {
	p.Slots = make([]SlotState, len([]rune(p.Word)))
	p.Assignment = make([]int, len(p.Tiles))
	for i := range p.Assignment {
		p.Assignment[i] = Unassigned
	}
	for i := range p.Tiles {
		p.Tiles[i].Used = false
		p.Tiles[i].Offset = Point{}
	}
	p.Result = ValidationUnknown
}

// SlotCount returns the number of answer slots
func (p *Puzzle) SlotCount() int {
	return len(p.Slots)
}

// TileCount returns the number of tiles in the pool
func (p *Puzzle) TileCount() int {
	return len(p.Tiles)
}

// IsValidSlot returns true if the slot index is within bounds
func (p *Puzzle) IsValidSlot(slot int) bool {
	return slot >= 0 && slot < len(p.Slots)
}

// IsValidTile returns true if the tile index is within bounds
func (p *Puzzle) IsValidTile(tile int) bool {
	return tile >= 0 && tile < len(p.Tiles)
}

// Filled returns the fill flag of every slot, in slot order
func (p *Puzzle) Filled() []bool {
	return lo.Map(p.Slots, func(s SlotState, _ int) bool {
		return s.Filled
	})
}

// FilledCount returns the number of filled slots
func (p *Puzzle) FilledCount() int {
	return lo.CountBy(p.Slots, func(s SlotState) bool {
		return s.Filled
	})
}

// IsFull returns true if every slot is filled
func (p *Puzzle) IsFull() bool {
	return len(p.Slots) > 0 && p.FilledCount() == len(p.Slots)
}

// Answer concatenates the letters of filled slots in slot order
func (p *Puzzle) Answer() string {
	var b strings.Builder
	for _, s := range p.Slots {
		if s.Filled {
			b.WriteRune(s.Letter)
		}
	}
	return b.String()
}

// TileInSlot returns the tile assigned to a slot, or Unassigned
func (p *Puzzle) TileInSlot(slot int) int {
	return lo.IndexOf(p.Assignment, slot)
}

// Assign puts a tile into a slot. Callers check that both are free.
func (p *Puzzle) Assign(tile, slot int) {
	p.Slots[slot] = SlotState{Filled: true, Letter: p.Tiles[tile].Letter}
	p.Tiles[tile].Used = true
	p.Tiles[tile].Offset = Point{}
	p.Assignment[tile] = slot
}

// Unassign empties a slot and returns the tile that was in it, or
// Unassigned if the slot held nothing
func (p *Puzzle) Unassign(slot int) int {
	tile := p.TileInSlot(slot)
	p.Slots[slot] = SlotState{}
	if tile == Unassigned {
		return Unassigned
	}
	p.Tiles[tile].Used = false
	p.Tiles[tile].Offset = Point{}
	p.Assignment[tile] = Unassigned
	return tile
}

// Phase reports progress through empty -> partial -> full -> correct/incorrect
func (p *Puzzle) Phase() PuzzlePhase {
	switch filled := p.FilledCount(); {
	case filled == 0:
		return PhaseEmpty
	case filled < len(p.Slots):
		return PhasePartial
	}
	switch p.Result {
	case ValidationCorrect:
		return PhaseCorrect
	case ValidationIncorrect:
		return PhaseIncorrect
	default:
		return PhaseFull
	}
}

// CheckInvariants verifies the slot/tile/assignment correspondence
func (p *Puzzle) CheckInvariants() error {
	if len(p.Assignment) != len(p.Tiles) {
		return fmt.Errorf("assignment has %d entries for %d tiles", len(p.Assignment), len(p.Tiles))
	}

	owners := make(map[int]int, len(p.Slots))
	for tile, slot := range p.Assignment {
		used := p.Tiles[tile].Used
		if slot == Unassigned {
			if used {
				return fmt.Errorf("tile %d is used but unassigned", tile)
			}
			continue
		}
		if !p.IsValidSlot(slot) {
			return fmt.Errorf("tile %d assigned to out-of-range slot %d", tile, slot)
		}
		if !used {
			return fmt.Errorf("tile %d is assigned to slot %d but not used", tile, slot)
		}
		if other, ok := owners[slot]; ok {
			return fmt.Errorf("tiles %d and %d both assigned to slot %d", other, tile, slot)
		}
		owners[slot] = tile
		if s := p.Slots[slot]; !s.Filled || s.Letter != p.Tiles[tile].Letter {
			return fmt.Errorf("slot %d does not hold letter of tile %d", slot, tile)
		}
	}

	for i, s := range p.Slots {
		if s.Filled != (s.Letter != 0) {
			return fmt.Errorf("slot %d fill flag disagrees with its letter", i)
		}
		if _, ok := owners[i]; s.Filled && !ok {
			return fmt.Errorf("slot %d is filled but no tile is assigned to it", i)
		}
	}
	return nil
}

// Clone returns a deep copy of the puzzle
func (p *Puzzle) Clone() *Puzzle {
	if p == nil {
		return nil
	}
	c := *p
	c.Slots = append([]SlotState(nil), p.Slots...)
	c.Tiles = append([]TileState(nil), p.Tiles...)
	c.Assignment = append([]int(nil), p.Assignment...)
	return &c
}
