package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PuzzleSuite struct {
	suite.Suite
	puzzle *Puzzle
}

func TestPuzzleSuite(t *testing.T) {
	suite.Run(t, new(PuzzleSuite))
}

func (s *PuzzleSuite) SetupTest() {
	s.puzzle = NewPuzzle("CAT", []rune("XTAYCZ"))
}

func (s *PuzzleSuite) TestNewPuzzleIsEmpty() {
	s.Equal(3, s.puzzle.SlotCount())
	s.Equal(6, s.puzzle.TileCount())
	s.Equal([]bool{false, false, false}, s.puzzle.Filled())
	s.Equal(PhaseEmpty, s.puzzle.Phase())
	s.Equal(ValidationUnknown, s.puzzle.Result)
	for _, slot := range s.puzzle.Assignment {
		s.Equal(Unassigned, slot)
	}
	s.NoError(s.puzzle.CheckInvariants())
}

func (s *PuzzleSuite) TestAssignAndUnassign() {
	s.puzzle.Tiles[1].Offset = Point{X: 30, Y: -12}
	s.puzzle.Assign(1, 2)

	s.True(s.puzzle.Slots[2].Filled)
	s.Equal('T', s.puzzle.Slots[2].Letter)
	s.True(s.puzzle.Tiles[1].Used)
	s.Equal(Point{}, s.puzzle.Tiles[1].Offset)
	s.Equal(1, s.puzzle.TileInSlot(2))
	s.Equal(PhasePartial, s.puzzle.Phase())
	s.NoError(s.puzzle.CheckInvariants())

	tile := s.puzzle.Unassign(2)
	s.Equal(1, tile)
	s.False(s.puzzle.Slots[2].Filled)
	s.False(s.puzzle.Tiles[1].Used)
	s.Equal(Unassigned, s.puzzle.TileInSlot(2))
	s.NoError(s.puzzle.CheckInvariants())
}

func (s *PuzzleSuite) TestUnassignEmptySlot() {
	s.Equal(Unassigned, s.puzzle.Unassign(0))
	s.NoError(s.puzzle.CheckInvariants())
}

func (s *PuzzleSuite) TestAnswerAndFull() {
	s.puzzle.Assign(4, 0)
	s.puzzle.Assign(2, 1)
	s.False(s.puzzle.IsFull())
	s.Equal("CA", s.puzzle.Answer())

	s.puzzle.Assign(1, 2)
	s.True(s.puzzle.IsFull())
	s.Equal("CAT", s.puzzle.Answer())
	s.Equal(PhaseFull, s.puzzle.Phase())

	s.puzzle.Result = ValidationCorrect
	s.Equal(PhaseCorrect, s.puzzle.Phase())
}

func (s *PuzzleSuite) TestClear() {
	s.puzzle.Assign(4, 0)
	s.puzzle.Tiles[0].Offset = Point{X: 5, Y: 5}
	s.puzzle.Result = ValidationIncorrect

	s.puzzle.Clear()

	s.Equal(0, s.puzzle.FilledCount())
	s.Equal(ValidationUnknown, s.puzzle.Result)
	s.Equal(Point{}, s.puzzle.Tiles[0].Offset)
	s.NoError(s.puzzle.CheckInvariants())
}

func (s *PuzzleSuite) TestCheckInvariantsDetectsDoubleAssignment() {
	s.puzzle.Assign(4, 0)
	s.puzzle.Assignment[2] = 0
	s.puzzle.Tiles[2].Used = true

	s.Error(s.puzzle.CheckInvariants())
}

func (s *PuzzleSuite) TestCheckInvariantsDetectsOrphanSlot() {
	s.puzzle.Slots[1] = SlotState{Filled: true, Letter: 'A'}

	s.Error(s.puzzle.CheckInvariants())
}

func (s *PuzzleSuite) TestCloneIsIndependent() {
	s.puzzle.Assign(4, 0)
	c := s.puzzle.Clone()

	c.Unassign(0)
	c.Tiles[3].Offset = Point{X: 1}

	s.True(s.puzzle.Slots[0].Filled)
	s.Equal(4, s.puzzle.TileInSlot(0))
	s.Equal(Point{}, s.puzzle.Tiles[3].Offset)
}

func TestDistance(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 40, Height: 40}
	c := r.Center()
	if c != (Point{X: 30, Y: 40}) {
		t.Fatalf("unexpected centre %v", c)
	}
	if d := Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4}); d != 5 {
		t.Fatalf("expected 5, got %v", d)
	}
}
