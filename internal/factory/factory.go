package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/fourpics/internal/dependencies/clock"
	"github.com/mcoot/fourpics/internal/dependencies/random"
	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/auth"
	"github.com/mcoot/fourpics/internal/services/content"
	"github.com/mcoot/fourpics/internal/services/game"
	"github.com/mcoot/fourpics/internal/services/placement"
	"github.com/mcoot/fourpics/internal/services/round"
	"github.com/mcoot/fourpics/internal/storage"
	"github.com/mcoot/fourpics/internal/storage/memory"
	redisstorage "github.com/mcoot/fourpics/internal/storage/redis"
	"github.com/mcoot/fourpics/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Content source constants
const (
	ContentSourceOffline = "offline" // Dictionary words, placeholder photos
	ContentSourceHybrid  = "hybrid"  // Dictionary words, Pexels photos
	ContentSourceRemote  = "remote"  // random-word-api words, Pexels photos
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Words  content.WordSource
	Photos content.PhotoSource

	// Services
	Dictionary       *content.Dictionary
	Acquirer         *round.Acquirer
	PlacementService *placement.Service
	GameController   *game.Controller
	AuthService      *auth.Service
	HubManager       *sse.HubManager
	Broadcaster      *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config

	// ContentSource selects where words and photos come from
	// If empty, defaults to "offline"
	ContentSource string
	// WordAPIURL and PexelsAPIURL override the upstream endpoints
	WordAPIURL   string
	PexelsAPIURL string
	// PexelsAPIKey is required by the "hybrid" and "remote" sources
	PexelsAPIKey string
	// HTTPConfig applies to both upstream clients
	// If zero value, defaults to content.DefaultHTTPConfig()
	HTTPConfig content.HTTPConfig
	// DictionaryPath is a word list file for the dictionary (optional)
	// If empty, words saved in storage are used, then the built-in list
	DictionaryPath string

	// Seed makes the random source reproducible when set
	Seed *uint64

	// Per-component settings (optional, zero values select defaults)
	AuthConfig      auth.Config
	RoundConfig     round.Config
	PlacementConfig placement.Config
	GameConfig      *game.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	var rnd random.Random = random.New()
	if cfg.Seed != nil {
		rnd = random.NewSeeded(*cfg.Seed)
	}

	httpCfg := cfg.HTTPConfig
	if httpCfg.Timeout == 0 {
		httpCfg = content.DefaultHTTPConfig()
	}

	var words content.WordSource
	var photos content.PhotoSource
	switch source := orDefault(cfg.ContentSource, ContentSourceOffline); source {
	case ContentSourceOffline:
		photos = content.NewPlaceholderPhotoSource()
	case ContentSourceHybrid, ContentSourceRemote:
		pexels, err := content.NewPexelsClient(orDefault(cfg.PexelsAPIURL, content.DefaultPexelsAPIURL), cfg.PexelsAPIKey, httpCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("content source %s: %w", source, err)
		}
		photos = pexels
		if source == ContentSourceRemote {
			words = content.NewRandomWordClient(orDefault(cfg.WordAPIURL, content.DefaultWordAPIURL), httpCfg, logger)
		}
	default:
		return nil, errors.New("invalid ContentSource: must be 'offline', 'hybrid' or 'remote'")
	}

	app := newWithDependencies(store, clk, rnd, words, photos, cfg, logger)

	// Words from the dictionary need a loaded word list
	if words == nil {
		if err := app.LoadDictionary(context.Background(), cfg.DictionaryPath); err != nil {
			app.Close()
			return nil, fmt.Errorf("loading dictionary: %w", err)
		}
		logger.Info("dictionary loaded", slog.Int("words", app.Dictionary.WordCount()))
	}

	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	switch orDefault(cfg.StorageType, StorageTypeMemory) {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for
// testing). A nil word source selects the dictionary.
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	words content.WordSource,
	photos content.PhotoSource,
	cfg Config,
	logger *slog.Logger,
) *App {
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	roundCfg := cfg.RoundConfig
	if roundCfg.PhotosPerRound == 0 {
		maxAttempts := roundCfg.MaxAttempts
		roundCfg = round.DefaultConfig()
		roundCfg.MaxAttempts = maxAttempts
	}
	placementCfg := cfg.PlacementConfig
	if placementCfg.MaxDistance == 0 {
		placementCfg = placement.DefaultConfig()
	}
	gameCfg := game.DefaultConfig()
	if cfg.GameConfig != nil {
		gameCfg = *cfg.GameConfig
	}

	dictionary := content.NewDictionary(store, rnd, content.DictionaryConfig{MaxLength: roundCfg.MaxWordLength})
	if words == nil {
		words = dictionary
	}

	acquirer := round.New(words, photos, clk, rnd, logger, roundCfg)
	placementService := placement.New(placementCfg, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	gameController := game.NewController(store, acquirer, placementService, clk, broadcaster, logger, gameCfg)
	authService := auth.New(store, clk, logger, authCfg)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		Words:            words,
		Photos:           photos,
		Dictionary:       dictionary,
		Acquirer:         acquirer,
		PlacementService: placementService,
		GameController:   gameController,
		AuthService:      authService,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
	}
}

// LoadDictionary loads the dictionary from path, or else from storage,
// falling back to the built-in word list when storage has no playable words
func (a *App) LoadDictionary(ctx context.Context, path string) error {
	if path != "" {
		if err := a.Dictionary.LoadFromFile(ctx, path); err != nil {
			return err
		}
		if !a.Dictionary.IsLoaded() {
			return fmt.Errorf("%s: no playable words: %w", path, model.ErrDictionaryNotLoaded)
		}
		return nil
	}
	err := a.Dictionary.LoadFromStorage(ctx)
	if errors.Is(err, model.ErrDictionaryNotLoaded) || (err == nil && !a.Dictionary.IsLoaded()) {
		return a.Dictionary.LoadBuiltin(ctx)
	}
	return err
}

// Close stops background work and releases the storage connection
func (a *App) Close() {
	a.GameController.Close()
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		_ = closer.Close()
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
