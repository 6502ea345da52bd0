// Package placement resolves tile drops onto answer slots and applies the
// resulting transitions to a puzzle.
package placement

import (
	"context"
	"log/slog"

	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/validation"
)

// MissReason explains why a drop did not fill a slot
type MissReason string

const (
	MissNone                MissReason = ""
	MissNoOpenSlot          MissReason = "no_open_slot"
	MissGeometryUnavailable MissReason = "geometry_unavailable"
	MissOutOfRange          MissReason = "out_of_range"
)

// Config holds placement settings
type Config struct {
	MaxDistance float64 // Furthest a drop may land from a slot centre and still fill it
}

// DefaultConfig returns the reference drop threshold
func DefaultConfig() Config {
	return Config{MaxDistance: 100}
}

// DropOutcome describes the result of ApplyDrop
type DropOutcome struct {
	Placed   bool
	Tile     int
	Slot     int // Target slot, or Unassigned when none was found
	Distance float64
	Reason   MissReason
	Result   model.ValidationResult
}

// Service applies drops, returns and resets to puzzles
type Service struct {
	config Config
	logger *slog.Logger
}

// New creates a new placement service
func New(config Config, logger *slog.Logger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// MaxDistance returns the configured drop threshold
func (s *Service) MaxDistance() float64 {
	return s.config.MaxDistance
}

// ApplyDrop resolves a released tile to an open slot and fills it when the
// slot centre is within MaxDistance of drop. The tile is back at its origin
// afterwards whatever the outcome.
func (s *Service) ApplyDrop(ctx context.Context, p *model.Puzzle, tile int, drop model.Point, m Measurer) (DropOutcome, error) {
	if !p.IsValidTile(tile) {
		return DropOutcome{}, model.ErrInvalidTile
	}
	if p.Tiles[tile].Used {
		return DropOutcome{}, model.ErrTileUsed
	}

	outcome := DropOutcome{Tile: tile, Slot: model.Unassigned}
	defer func() {
		p.Tiles[tile].Offset = model.Point{}
	}()

	filled := p.Filled()
	slot, _, found, err := Nearest(ctx, drop, m, filled)
	if err != nil {
		return DropOutcome{}, err
	}
	if !found {
		outcome.Reason = missReasonFor(filled)
		outcome.Result = s.revalidate(p)
		return outcome, nil
	}

	// Geometry may have moved since the search, measure the chosen slot again
	rect, ok := m.Measure(ctx, slot)
	if err := ctx.Err(); err != nil {
		return DropOutcome{}, err
	}
	outcome.Slot = slot
	if !ok {
		outcome.Reason = MissGeometryUnavailable
		outcome.Result = s.revalidate(p)
		return outcome, nil
	}

	outcome.Distance = model.Distance(drop, rect.Center())
	if outcome.Distance > s.config.MaxDistance {
		s.logger.Debug("drop out of range",
			slog.Int("tile", tile),
			slog.Int("slot", slot),
			slog.Float64("distance", outcome.Distance),
		)
		outcome.Reason = MissOutOfRange
		outcome.Result = s.revalidate(p)
		return outcome, nil
	}

	p.Assign(tile, slot)
	outcome.Placed = true
	outcome.Result = s.revalidate(p)
	return outcome, nil
}

func missReasonFor(filled []bool) MissReason {
	for _, f := range filled {
		if !f {
			return MissGeometryUnavailable
		}
	}
	return MissNoOpenSlot
}

// ReturnLetter empties a filled slot and makes its tile draggable again.
// Returns the freed tile, or Unassigned if the slot was empty or out of range.
func (s *Service) ReturnLetter(p *model.Puzzle, slot int) int {
	if !p.IsValidSlot(slot) || !p.Slots[slot].Filled {
		return model.Unassigned
	}
	tile := p.Unassign(slot)
	p.Result = model.ValidationUnknown
	s.revalidate(p)
	return tile
}

// Reset empties every slot and returns every tile to the pool
func (s *Service) Reset(p *model.Puzzle) {
	p.Clear()
	s.revalidate(p)
}

// MoveTile records the current drag translation of a draggable tile
func (s *Service) MoveTile(p *model.Puzzle, tile int, offset model.Point) error {
	if !p.IsValidTile(tile) {
		return model.ErrInvalidTile
	}
	if p.Tiles[tile].Used {
		return model.ErrTileUsed
	}
	p.Tiles[tile].Offset = offset
	return nil
}

func (s *Service) revalidate(p *model.Puzzle) model.ValidationResult {
	p.Result = validation.Validate(p.Slots, p.Word)
	return p.Result
}

// ServiceInterface for dependency injection
type ServiceInterface interface {
	ApplyDrop(ctx context.Context, p *model.Puzzle, tile int, drop model.Point, m Measurer) (DropOutcome, error)
	ReturnLetter(p *model.Puzzle, slot int) int
	Reset(p *model.Puzzle)
	MoveTile(p *model.Puzzle, tile int, offset model.Point) error
	MaxDistance() float64
}

var _ ServiceInterface = (*Service)(nil)
