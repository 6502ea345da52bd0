// Package game runs a player's games: it applies rounds, routes answer-row
// actions to the placement engine and publishes what happened.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"

	"github.com/mcoot/fourpics/internal/dependencies/clock"
	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/placement"
	"github.com/mcoot/fourpics/internal/services/round"
	"github.com/mcoot/fourpics/internal/storage"
)

var errRoundReopened = errors.New("round was reopened")

// EventPublisher receives game events after they have been persisted
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.Event) {}

// Config holds game controller settings
type Config struct {
	// AutoAdvance fetches the next round AutoAdvanceDelay after a correct answer
	AutoAdvance      bool
	AutoAdvanceDelay time.Duration

	// AcquireTimeout bounds a single round fetch, 0 for no bound
	AcquireTimeout time.Duration

	// Slot row used to resolve drops that arrive without client geometry
	BoardWidth float64
	SlotRowTop float64
}

// DefaultConfig returns default game settings
func DefaultConfig() Config {
	return Config{
		AutoAdvance:      true,
		AutoAdvanceDelay: time.Second,
		AcquireTimeout:   30 * time.Second,
		BoardWidth:       360,
		SlotRowTop:       0,
	}
}

// Controller manages games and their rounds
type Controller struct {
	storage   storage.Storage
	acquirer  round.AcquirerInterface
	placement placement.ServiceInterface
	clock     clock.Clock
	publisher EventPublisher
	logger    *slog.Logger
	config    Config

	locks   *gameLocks
	fetches singleflight.Group

	// Background work (auto-advance) runs under ctx until Close
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	timers map[model.GameID]*time.Timer
	wg     sync.WaitGroup
}

// NewController creates a new game controller. publisher may be nil.
func NewController(
	storage storage.Storage,
	acquirer round.AcquirerInterface,
	placement placement.ServiceInterface,
	clock clock.Clock,
	publisher EventPublisher,
	logger *slog.Logger,
	config Config,
) *Controller {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		storage:   storage,
		acquirer:  acquirer,
		placement: placement,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
		config:    config,
		locks:     newGameLocks(),
		ctx:       ctx,
		cancel:    cancel,
		timers:    make(map[model.GameID]*time.Timer),
	}
}

// Close stops pending auto-advances and waits for running ones to finish
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancel()
	for id, t := range c.timers {
		if t.Stop() {
			c.wg.Done()
		}
		delete(c.timers, id)
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// StartGame creates a game for the player and fetches its first round. Game
// IDs are random UUIDs whatever the seed of the round random source, so a
// seeded restart cannot reissue a stored ID.
func (c *Controller) StartGame(ctx context.Context, playerID model.PlayerID) (*model.Game, error) {
	now := c.clock.Now()
	game := &model.Game{
		ID:        model.GameID(uuid.NewString()),
		PlayerID:  playerID,
		Status:    model.GameStatusPlaying,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(playerID)),
	)

	return c.advance(ctx, game.ID, playerID, game.Generation, false)
}

// GetGame retrieves a game owned by the player
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	return c.load(ctx, gameID, playerID)
}

// ListGames returns the player's games, newest first
func (c *Controller) ListGames(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return c.storage.GetGamesForPlayer(ctx, playerID)
}

// NextRound replaces the current round with a freshly fetched one. If another
// round is applied while the fetch is in flight, the fetched round is dropped
// and ErrRoundSuperseded returned.
func (c *Controller) NextRound(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.load(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	return c.advance(ctx, gameID, playerID, game.Generation, false)
}

// advance fetches a round and applies it if the game is still at generation
// from. With onlySolved set the round is dropped if the current one has been
// reopened in the meantime.
func (c *Controller) advance(ctx context.Context, gameID model.GameID, playerID model.PlayerID, from int, onlySolved bool) (*model.Game, error) {
	next, fetchErr := c.acquire(ctx, gameID, from)
	if fetchErr != nil && ctx.Err() != nil {
		return nil, fetchErr
	}

	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.load(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	if fetchErr != nil {
		if game.Generation == from {
			c.markFailed(ctx, game, fetchErr)
		}
		return nil, fetchErr
	}

	// A concurrent caller shared this fetch and already applied it
	if game.Round != nil && game.Round.ID == next.ID {
		return game, nil
	}
	if game.Generation != from {
		c.logger.Debug("discarding superseded round",
			slog.String("game_id", string(gameID)),
			slog.Int("fetched_for", from),
			slog.Int("generation", game.Generation),
		)
		return nil, model.ErrRoundSuperseded
	}
	if onlySolved && game.Status != model.GameStatusSolved {
		return nil, errRoundReopened
	}

	c.cancelAdvance(gameID)

	next = next.Clone()
	game.Round = next
	game.Puzzle = model.NewPuzzle(next.Word, next.Tiles)
	game.Generation++
	game.RoundsPlayed++
	game.Status = model.GameStatusPlaying
	game.LastError = ""
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("round started",
		slog.String("game_id", string(gameID)),
		slog.String("round_id", string(next.ID)),
		slog.Int("generation", game.Generation),
	)
	c.publisher.Publish(ctx, c.event(game, model.EventRoundStarted, model.RoundStartedPayload{
		RoundID:    next.ID,
		Generation: game.Generation,
		WordLength: next.WordLength(),
		Tiles:      next.Tiles,
		PhotoURLs:  lo.Map(next.Photos, func(p model.Photo, _ int) string { return p.URL }),
	}))

	return game, nil
}

// acquire runs one shared round fetch per game generation
func (c *Controller) acquire(ctx context.Context, gameID model.GameID, from int) (*model.Round, error) {
	key := fmt.Sprintf("%s:%d", gameID, from)
	ch := c.fetches.DoChan(key, func() (any, error) {
		fetchCtx := c.ctx
		if c.config.AcquireTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.config.AcquireTimeout)
			defer cancel()
		}
		return c.acquirer.Acquire(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Round), nil
	}
}

func (c *Controller) markFailed(ctx context.Context, game *model.Game, cause error) {
	game.Status = model.GameStatusFailed
	game.LastError = cause.Error()
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save failed game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return
	}

	payload := model.RoundFailedPayload{Error: cause.Error()}
	var acqErr *model.AcquisitionError
	if errors.As(cause, &acqErr) {
		payload.Stage = acqErr.Stage
	}
	c.logger.Warn("round fetch failed",
		slog.String("game_id", string(game.ID)),
		slog.String("error", cause.Error()),
	)
	c.publisher.Publish(ctx, c.event(game, model.EventRoundFailed, payload))
}

// MoveTile records a draggable tile's current drag translation
func (c *Controller) MoveTile(ctx context.Context, gameID model.GameID, playerID model.PlayerID, tile int, offset model.Point) (*model.Game, error) {
	return c.mutate(ctx, gameID, playerID, func(game *model.Game) ([]model.Event, error) {
		return nil, c.placement.MoveTile(game.Puzzle, tile, offset)
	})
}

// DropTile releases a tile at drop. m measures the answer slots; nil uses the
// server-side layout.
func (c *Controller) DropTile(
	ctx context.Context,
	gameID model.GameID,
	playerID model.PlayerID,
	tile int,
	drop model.Point,
	m placement.Measurer,
) (*model.Game, placement.DropOutcome, error) {
	var outcome placement.DropOutcome
	game, err := c.mutate(ctx, gameID, playerID, func(game *model.Game) ([]model.Event, error) {
		if game.Puzzle.Result == model.ValidationCorrect {
			return nil, model.ErrRoundSolved
		}
		measurer := m
		if measurer == nil {
			measurer = c.Layout(game)
		}
		before := game.Puzzle.Result

		var err error
		outcome, err = c.placement.ApplyDrop(ctx, game.Puzzle, tile, drop, measurer)
		if err != nil {
			return nil, err
		}

		if !outcome.Placed {
			return []model.Event{c.event(game, model.EventDropMissed, model.DropMissedPayload{
				Tile:     tile,
				Reason:   string(outcome.Reason),
				Distance: outcome.Distance,
			})}, nil
		}

		events := []model.Event{c.event(game, model.EventLetterPlaced, model.LetterPlacedPayload{
			Tile:     tile,
			Slot:     outcome.Slot,
			Letter:   game.Puzzle.Slots[outcome.Slot].Letter,
			Distance: outcome.Distance,
		})}
		return append(events, c.resultEvents(game, before)...), nil
	})
	if err != nil {
		return nil, placement.DropOutcome{}, err
	}

	if game.Status == model.GameStatusSolved {
		c.scheduleAdvance(game.ID, playerID, game.Generation)
	}
	return game, outcome, nil
}

// resultEvents reacts to a change of validation result
func (c *Controller) resultEvents(game *model.Game, before model.ValidationResult) []model.Event {
	after := game.Puzzle.Result
	if after == before {
		return nil
	}
	if before == model.ValidationCorrect {
		// Reopened: the round counts as solved again only once re-solved
		game.Status = model.GameStatusPlaying
		game.RoundsSolved--
		c.cancelAdvance(game.ID)
		c.logger.Info("round reopened",
			slog.String("game_id", string(game.ID)),
			slog.String("round_id", string(game.Round.ID)),
		)
	}
	switch after {
	case model.ValidationCorrect:
		game.Status = model.GameStatusSolved
		game.RoundsSolved++
		c.logger.Info("round solved",
			slog.String("game_id", string(game.ID)),
			slog.String("round_id", string(game.Round.ID)),
		)
		return []model.Event{c.event(game, model.EventRoundSolved, model.RoundSolvedPayload{
			RoundID:      game.Round.ID,
			Word:         game.Round.Word,
			RoundsSolved: game.RoundsSolved,
		})}
	case model.ValidationIncorrect:
		return []model.Event{c.event(game, model.EventRoundIncorrect, model.RoundIncorrectPayload{
			Answer: game.Puzzle.Answer(),
		})}
	}
	return nil
}

// ReturnLetter sends a placed letter back to the pool, reopening a solved
// round. The freed tile is Unassigned when the slot was already empty.
func (c *Controller) ReturnLetter(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot int) (*model.Game, int, error) {
	tile := model.Unassigned
	game, err := c.mutate(ctx, gameID, playerID, func(game *model.Game) ([]model.Event, error) {
		if !game.Puzzle.IsValidSlot(slot) {
			return nil, model.ErrInvalidSlot
		}
		letter := game.Puzzle.Slots[slot].Letter
		before := game.Puzzle.Result
		tile = c.placement.ReturnLetter(game.Puzzle, slot)
		if tile == model.Unassigned {
			return nil, nil
		}
		events := []model.Event{c.event(game, model.EventLetterReturned, model.LetterReturnedPayload{
			Tile:   tile,
			Slot:   slot,
			Letter: letter,
		})}
		return append(events, c.resultEvents(game, before)...), nil
	})
	if err != nil {
		return nil, model.Unassigned, err
	}
	return game, tile, nil
}

// ResetRound empties the answer row, reopening a solved round
func (c *Controller) ResetRound(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	return c.mutate(ctx, gameID, playerID, func(game *model.Game) ([]model.Event, error) {
		before := game.Puzzle.Result
		c.placement.Reset(game.Puzzle)
		events := []model.Event{c.event(game, model.EventRoundReset, nil)}
		return append(events, c.resultEvents(game, before)...), nil
	})
}

// Layout returns the server-side slot row for the game's current round
func (c *Controller) Layout(game *model.Game) placement.Layout {
	slots := 0
	if game.Puzzle != nil {
		slots = game.Puzzle.SlotCount()
	}
	return placement.CenteredLayout(slots, c.config.BoardWidth, c.config.SlotRowTop)
}

// mutate loads a game with a round under its lock, applies fn, saves and
// then publishes the events fn returned
func (c *Controller) mutate(
	ctx context.Context,
	gameID model.GameID,
	playerID model.PlayerID,
	fn func(game *model.Game) ([]model.Event, error),
) (*model.Game, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.load(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	if !game.HasRound() {
		return nil, model.ErrNoRound
	}

	events, err := fn(game)
	if err != nil {
		return nil, err
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	for _, e := range events {
		c.publisher.Publish(ctx, e)
	}
	return game, nil
}

func (c *Controller) load(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsOwnedBy(playerID) {
		return nil, model.ErrNotGameOwner
	}
	return game, nil
}

func (c *Controller) event(game *model.Game, eventType model.EventType, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    game.ID,
		PlayerID:  game.PlayerID,
		Payload:   payload,
	}
}

// scheduleAdvance fetches the next round after AutoAdvanceDelay, unless a
// round has been applied to the game in the meantime
func (c *Controller) scheduleAdvance(gameID model.GameID, playerID model.PlayerID, from int) {
	if !c.config.AutoAdvance {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Err() != nil {
		return
	}
	if old, ok := c.timers[gameID]; ok && old.Stop() {
		c.wg.Done()
	}

	c.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(c.config.AutoAdvanceDelay, func() {
		defer c.wg.Done()

		c.mu.Lock()
		if c.timers[gameID] == t {
			delete(c.timers, gameID)
		}
		c.mu.Unlock()

		_, err := c.advance(c.ctx, gameID, playerID, from, true)
		switch {
		case err == nil:
		case errors.Is(err, model.ErrRoundSuperseded), errors.Is(err, errRoundReopened), errors.Is(err, context.Canceled):
			c.logger.Debug("auto-advance skipped",
				slog.String("game_id", string(gameID)),
				slog.String("reason", err.Error()),
			)
		default:
			c.logger.Warn("auto-advance failed",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
		}
	})
	c.timers[gameID] = t
}

// cancelAdvance stops a pending auto-advance for the game
func (c *Controller) cancelAdvance(gameID model.GameID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[gameID]; ok {
		if t.Stop() {
			c.wg.Done()
		}
		delete(c.timers, gameID)
	}
}

// ControllerInterface for dependency injection
type ControllerInterface interface {
	StartGame(ctx context.Context, playerID model.PlayerID) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	ListGames(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error)
	NextRound(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	MoveTile(ctx context.Context, gameID model.GameID, playerID model.PlayerID, tile int, offset model.Point) (*model.Game, error)
	DropTile(ctx context.Context, gameID model.GameID, playerID model.PlayerID, tile int, drop model.Point, m placement.Measurer) (*model.Game, placement.DropOutcome, error)
	ReturnLetter(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot int) (*model.Game, int, error)
	ResetRound(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
}

var _ ControllerInterface = (*Controller)(nil)
