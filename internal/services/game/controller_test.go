package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fourpics/internal/dependencies/mocks"
	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/placement"
	"github.com/mcoot/fourpics/internal/storage/memory"
	"github.com/mcoot/fourpics/internal/testutil"
)

// stubAcquirer hands out CAT rounds with sequential IDs. When gate is set,
// Acquire blocks until it is closed.
type stubAcquirer struct {
	mu    sync.Mutex
	errs  []error
	gate  chan struct{}
	calls atomic.Int32
}

func (a *stubAcquirer) queueError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs = append(a.errs, err)
}

func (a *stubAcquirer) Acquire(ctx context.Context) (*model.Round, error) {
	n := a.calls.Add(1)

	a.mu.Lock()
	gate := a.gate
	var err error
	if len(a.errs) > 0 {
		err = a.errs[0]
		a.errs = a.errs[1:]
	}
	a.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &model.Round{
		ID:     model.RoundID(fmt.Sprintf("round-%d", n)),
		Word:   "CAT",
		Tiles:  []rune("XTARCQWERTYU"),
		Photos: []model.Photo{{ID: 1, URL: "https://photos.test/cat/0.jpg"}},
	}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]model.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

func (p *recordingPublisher) last() model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	acquirer   *stubAcquirer
	publisher  *recordingPublisher
	clock      *mocks.MockClock
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.acquirer = &stubAcquirer{}
	s.publisher = &recordingPublisher{}
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	cfg := DefaultConfig()
	cfg.AutoAdvance = false
	s.controller = s.newController(cfg)
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.Close()
}

func (s *ControllerSuite) newController(cfg Config) *Controller {
	return NewController(
		s.storage,
		s.acquirer,
		placement.New(placement.DefaultConfig(), testutil.NopLogger()),
		s.clock,
		s.publisher,
		testutil.NopLogger(),
		cfg,
	)
}

// drop releases a tile on the centre of a slot of the default layout
func (s *ControllerSuite) drop(game *model.Game, tile, slot int) (*model.Game, placement.DropOutcome) {
	at := s.controller.Layout(game).Center(slot)
	game, outcome, err := s.controller.DropTile(s.ctx, game.ID, game.PlayerID, tile, at, nil)
	s.Require().NoError(err)
	return game, outcome
}

// Tiles are XTARCQWERTYU: C=4, A=2, T=1, R=3
func (s *ControllerSuite) solve(game *model.Game) *model.Game {
	game, _ = s.drop(game, 4, 0)
	game, _ = s.drop(game, 2, 1)
	game, _ = s.drop(game, 1, 2)
	return game
}

func (s *ControllerSuite) TestStartGame() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = uuid.Parse(string(game.ID))
	s.NoError(err)
	s.Equal(model.PlayerID("player-1"), game.PlayerID)
	s.Equal(model.GameStatusPlaying, game.Status)
	s.Equal(1, game.Generation)
	s.Equal(1, game.RoundsPlayed)
	s.Equal("CAT", game.Round.Word)
	s.Equal(3, game.Puzzle.SlotCount())
	s.Equal(12, game.Puzzle.TileCount())
	s.Equal(model.PhaseEmpty, game.Puzzle.Phase())

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.Round.ID, stored.Round.ID)

	s.Equal([]model.EventType{model.EventRoundStarted}, s.publisher.types())
	payload := s.publisher.last().Payload.(model.RoundStartedPayload)
	s.Equal(3, payload.WordLength)
	s.Equal([]string{"https://photos.test/cat/0.jpg"}, payload.PhotoURLs)
}

func (s *ControllerSuite) TestStartGameGivesDistinctIDs() {
	a, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	b, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	s.NotEqual(a.ID, b.ID)

	games, err := s.controller.ListGames(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *ControllerSuite) TestSolvingRound() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	game = s.solve(game)

	s.Equal(model.GameStatusSolved, game.Status)
	s.Equal(1, game.RoundsSolved)
	s.Equal(model.PhaseCorrect, game.Puzzle.Phase())
	s.Equal("CAT", game.Puzzle.Answer())
	s.NoError(game.Puzzle.CheckInvariants())
	s.Equal([]model.EventType{
		model.EventRoundStarted,
		model.EventLetterPlaced,
		model.EventLetterPlaced,
		model.EventLetterPlaced,
		model.EventRoundSolved,
	}, s.publisher.types())
	s.Equal("CAT", s.publisher.last().Payload.(model.RoundSolvedPayload).Word)
}

func (s *ControllerSuite) TestDropAfterSolveIsRejected() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	game = s.solve(game)

	_, _, err = s.controller.DropTile(s.ctx, game.ID, "player-1", 0, model.Point{}, nil)
	s.ErrorIs(err, model.ErrRoundSolved)
}

func (s *ControllerSuite) TestReturnAfterSolveReopensRound() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	game = s.solve(game)

	game, tile, err := s.controller.ReturnLetter(s.ctx, game.ID, "player-1", 2)
	s.Require().NoError(err)
	s.Equal(1, tile)
	s.Equal(model.PhasePartial, game.Puzzle.Phase())
	s.Equal(model.GameStatusPlaying, game.Status)
	s.Equal(0, game.RoundsSolved)
	s.NoError(game.Puzzle.CheckInvariants())
	s.Equal(model.EventLetterReturned, s.publisher.last().Type)

	// Solving again counts the round once
	game, _ = s.drop(game, 1, 2)
	s.Equal(model.GameStatusSolved, game.Status)
	s.Equal(1, game.RoundsSolved)
}

func (s *ControllerSuite) TestResetAfterSolveEmptiesRow() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	game = s.solve(game)

	game, err = s.controller.ResetRound(s.ctx, game.ID, "player-1")
	s.Require().NoError(err)
	s.Equal(model.PhaseEmpty, game.Puzzle.Phase())
	s.Equal(model.GameStatusPlaying, game.Status)
	s.Equal(0, game.RoundsSolved)
	s.Equal(model.EventRoundReset, s.publisher.last().Type)

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, stored.Status)
}

func (s *ControllerSuite) TestWrongAnswerThenReturn() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	game, _ = s.drop(game, 4, 0)
	game, _ = s.drop(game, 2, 1)
	game, _ = s.drop(game, 3, 2)

	s.Equal(model.PhaseIncorrect, game.Puzzle.Phase())
	s.Equal(model.GameStatusPlaying, game.Status)
	s.Equal(model.EventRoundIncorrect, s.publisher.last().Type)
	s.Equal("CAR", s.publisher.last().Payload.(model.RoundIncorrectPayload).Answer)

	game, tile, err := s.controller.ReturnLetter(s.ctx, game.ID, "player-1", 2)
	s.Require().NoError(err)
	s.Equal(3, tile)
	s.Equal(model.PhasePartial, game.Puzzle.Phase())
	s.Equal(model.ValidationUnknown, game.Puzzle.Result)
	s.False(game.Puzzle.Tiles[3].Used)

	s.Equal(model.EventLetterReturned, s.publisher.last().Type)
	s.Equal('R', s.publisher.last().Payload.(model.LetterReturnedPayload).Letter)

	game, _ = s.drop(game, 1, 2)
	s.Equal(model.GameStatusSolved, game.Status)
}

func (s *ControllerSuite) TestReturnFromEmptySlotIsNoop() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	before := len(s.publisher.types())

	_, tile, err := s.controller.ReturnLetter(s.ctx, game.ID, "player-1", 1)
	s.Require().NoError(err)
	s.Equal(model.Unassigned, tile)
	s.Len(s.publisher.types(), before)

	_, _, err = s.controller.ReturnLetter(s.ctx, game.ID, "player-1", 3)
	s.ErrorIs(err, model.ErrInvalidSlot)
}

func (s *ControllerSuite) TestMissedDropPublishesMiss() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	game, outcome, err := s.controller.DropTile(s.ctx, game.ID, "player-1", 4, model.Point{X: 1000, Y: 1000}, nil)
	s.Require().NoError(err)

	s.False(outcome.Placed)
	s.Equal(placement.MissOutOfRange, outcome.Reason)
	s.Equal(model.PhaseEmpty, game.Puzzle.Phase())
	s.Equal(model.EventDropMissed, s.publisher.last().Type)
}

func (s *ControllerSuite) TestDropWithClientGeometry() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	geometry := placement.SlotGeometry{
		{X: 0, Y: 500, Width: 40, Height: 40},
		{X: 50, Y: 500, Width: 40, Height: 40},
		nil,
	}
	game, outcome, err := s.controller.DropTile(s.ctx, game.ID, "player-1", 2, model.Point{X: 70, Y: 520}, geometry)
	s.Require().NoError(err)

	s.True(outcome.Placed)
	s.Equal(1, outcome.Slot)
	s.Equal('A', game.Puzzle.Slots[1].Letter)
}

func (s *ControllerSuite) TestDropRejectsBadTile() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	_, _, err = s.controller.DropTile(s.ctx, game.ID, "player-1", 99, model.Point{}, nil)
	s.ErrorIs(err, model.ErrInvalidTile)

	game, _ = s.drop(game, 4, 0)
	_, _, err = s.controller.DropTile(s.ctx, game.ID, "player-1", 4, model.Point{}, nil)
	s.ErrorIs(err, model.ErrTileUsed)
}

func (s *ControllerSuite) TestResetRound() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	game, _ = s.drop(game, 4, 0)
	game, _ = s.drop(game, 2, 1)

	game, err = s.controller.ResetRound(s.ctx, game.ID, "player-1")
	s.Require().NoError(err)

	s.Equal(model.PhaseEmpty, game.Puzzle.Phase())
	s.Equal(model.EventRoundReset, s.publisher.last().Type)
	s.NoError(game.Puzzle.CheckInvariants())
}

func (s *ControllerSuite) TestMoveTile() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	before := len(s.publisher.types())

	game, err = s.controller.MoveTile(s.ctx, game.ID, "player-1", 5, model.Point{X: 12, Y: -3})
	s.Require().NoError(err)
	s.Equal(model.Point{X: 12, Y: -3}, game.Puzzle.Tiles[5].Offset)
	s.Len(s.publisher.types(), before)

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.Point{X: 12, Y: -3}, stored.Puzzle.Tiles[5].Offset)
}

func (s *ControllerSuite) TestOtherPlayersAreRejected() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.controller.GetGame(s.ctx, game.ID, "player-2")
	s.ErrorIs(err, model.ErrNotGameOwner)

	_, _, err = s.controller.DropTile(s.ctx, game.ID, "player-2", 4, model.Point{}, nil)
	s.ErrorIs(err, model.ErrNotGameOwner)

	_, err = s.controller.NextRound(s.ctx, game.ID, "player-2")
	s.ErrorIs(err, model.ErrNotGameOwner)
}

func (s *ControllerSuite) TestUnknownGame() {
	_, err := s.controller.GetGame(s.ctx, "NOPE", "player-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestNextRoundReplacesRound() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	game, _ = s.drop(game, 4, 0)
	first := game.Round.ID

	game, err = s.controller.NextRound(s.ctx, game.ID, "player-1")
	s.Require().NoError(err)

	s.NotEqual(first, game.Round.ID)
	s.Equal(2, game.Generation)
	s.Equal(2, game.RoundsPlayed)
	s.Equal(model.PhaseEmpty, game.Puzzle.Phase())
}

func (s *ControllerSuite) TestStaleFetchIsSuperseded() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	current := game.Round.ID

	// A fetch started before the first round was applied
	_, err = s.controller.advance(s.ctx, game.ID, "player-1", 0, false)
	s.ErrorIs(err, model.ErrRoundSuperseded)

	game, err = s.controller.GetGame(s.ctx, game.ID, "player-1")
	s.Require().NoError(err)
	s.Equal(current, game.Round.ID)
	s.Equal(1, game.Generation)
}

func (s *ControllerSuite) TestConcurrentNextRoundSharesFetch() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int32(1), s.acquirer.calls.Load())

	gate := make(chan struct{})
	s.acquirer.mu.Lock()
	s.acquirer.gate = gate
	s.acquirer.mu.Unlock()

	var wg sync.WaitGroup
	results := make([]*model.Game, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.controller.NextRound(s.ctx, game.ID, "player-1")
		}()
	}

	s.Eventually(func() bool { return s.acquirer.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])
	s.Equal(int32(2), s.acquirer.calls.Load())
	s.Equal(results[0].Round.ID, results[1].Round.ID)
	s.Equal(2, results[0].Generation)
	s.Equal(2, results[1].Generation)
}

func (s *ControllerSuite) TestAcquisitionFailureMarksGameFailed() {
	s.acquirer.queueError(&model.AcquisitionError{Stage: model.StagePhotos, Err: errors.New("rate limited")})

	_, err := s.controller.StartGame(s.ctx, "player-1")
	var acqErr *model.AcquisitionError
	s.Require().ErrorAs(err, &acqErr)
	s.Equal(model.StagePhotos, acqErr.Stage)

	games, err := s.controller.ListGames(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameStatusFailed, games[0].Status)
	s.Contains(games[0].LastError, "rate limited")
	s.False(games[0].HasRound())

	s.Equal(model.EventRoundFailed, s.publisher.last().Type)
	s.Equal(model.StagePhotos, s.publisher.last().Payload.(model.RoundFailedPayload).Stage)

	_, _, err = s.controller.DropTile(s.ctx, games[0].ID, "player-1", 0, model.Point{}, nil)
	s.ErrorIs(err, model.ErrNoRound)

	game, err := s.controller.NextRound(s.ctx, games[0].ID, "player-1")
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, game.Status)
	s.Empty(game.LastError)
}

func (s *ControllerSuite) TestCancelledCallerLeavesGameAlone() {
	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)

	gate := make(chan struct{})
	defer close(gate)
	s.acquirer.mu.Lock()
	s.acquirer.gate = gate
	s.acquirer.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	_, err = s.controller.NextRound(ctx, game.ID, "player-1")
	s.ErrorIs(err, context.DeadlineExceeded)

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, stored.Status)
	s.Equal(1, stored.Generation)
}

func (s *ControllerSuite) TestAutoAdvanceAfterSolve() {
	s.controller.Close()
	cfg := DefaultConfig()
	cfg.AutoAdvanceDelay = 10 * time.Millisecond
	s.controller = s.newController(cfg)

	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	s.solve(game)

	s.Eventually(func() bool {
		g, err := s.storage.GetGame(s.ctx, game.ID)
		return err == nil && g.Generation == 2
	}, time.Second, 5*time.Millisecond)

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, stored.Status)
	s.Equal(1, stored.RoundsSolved)
	s.Equal(2, stored.RoundsPlayed)
}

func (s *ControllerSuite) TestManualNextRoundCancelsAutoAdvance() {
	s.controller.Close()
	cfg := DefaultConfig()
	cfg.AutoAdvanceDelay = 50 * time.Millisecond
	s.controller = s.newController(cfg)

	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	s.solve(game)

	_, err = s.controller.NextRound(s.ctx, game.ID, "player-1")
	s.Require().NoError(err)

	time.Sleep(100 * time.Millisecond)
	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(2, stored.Generation)
	s.Equal(int32(2), s.acquirer.calls.Load())
}

func (s *ControllerSuite) TestReopeningCancelsAutoAdvance() {
	s.controller.Close()
	cfg := DefaultConfig()
	cfg.AutoAdvanceDelay = 50 * time.Millisecond
	s.controller = s.newController(cfg)

	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	game = s.solve(game)

	_, _, err = s.controller.ReturnLetter(s.ctx, game.ID, "player-1", 0)
	s.Require().NoError(err)

	time.Sleep(100 * time.Millisecond)
	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.Generation)
	s.Equal(model.GameStatusPlaying, stored.Status)
	s.Equal(int32(1), s.acquirer.calls.Load())
}

func (s *ControllerSuite) TestCloseStopsPendingAutoAdvance() {
	s.controller.Close()
	cfg := DefaultConfig()
	cfg.AutoAdvanceDelay = time.Hour
	s.controller = s.newController(cfg)

	game, err := s.controller.StartGame(s.ctx, "player-1")
	s.Require().NoError(err)
	s.solve(game)

	s.controller.Close()

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.Generation)
	s.Equal(model.GameStatusSolved, stored.Status)
}

func TestGameLocksReleaseEntries(t *testing.T) {
	locks := newGameLocks()
	unlock := locks.lock("A")
	if locks.size() != 1 {
		t.Fatalf("expected 1 lock, got %d", locks.size())
	}
	unlock()
	if locks.size() != 0 {
		t.Fatalf("expected 0 locks, got %d", locks.size())
	}
}
