package factory

import (
	"context"
	"time"

	"github.com/mcoot/fourpics/internal/dependencies/mocks"
	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/game"
	"github.com/mcoot/fourpics/internal/services/round"
	"github.com/mcoot/fourpics/internal/storage/memory"
	"github.com/mcoot/fourpics/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockWords  *mocks.MockWordSource
	MockPhotos *mocks.MockPhotoSource
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Auto-advance is off and every round is CAT unless words are queued.
func NewTestApp() *TestApp {
	gameCfg := game.DefaultConfig()
	gameCfg.AutoAdvance = false
	return NewTestAppWithConfig(Config{
		GameConfig:  &gameCfg,
		RoundConfig: round.Config{MaxAttempts: 5},
	})
}

// NewTestAppWithConfig creates a TestApp using the component settings in cfg
func NewTestAppWithConfig(cfg Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockWords := mocks.NewMockWordSource()
	mockWords.Fallback = "cat"
	mockPhotos := mocks.NewMockPhotoSource()

	app := newWithDependencies(store, mockClock, mockRandom, mockWords, mockPhotos, cfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockWords:  mockWords,
		MockPhotos: mockPhotos,
	}
}

// CreatePlayer saves a guest player directly to storage
func (t *TestApp) CreatePlayer(ctx context.Context, id, name string) (model.Player, error) {
	player := model.Player{
		ID:          model.PlayerID(id),
		DisplayName: name,
		IsGuest:     true,
		CreatedAt:   t.MockClock.Now(),
	}
	return player, t.Storage.SavePlayer(ctx, &player)
}

// TileFor returns the first free tile carrying letter, or Unassigned
func TileFor(g *model.Game, letter rune) int {
	for i, tile := range g.Puzzle.Tiles {
		if tile.Letter == letter && !tile.Used {
			return i
		}
	}
	return model.Unassigned
}
