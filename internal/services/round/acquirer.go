// Package round acquires playable rounds from content sources.
package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/fourpics/internal/dependencies/clock"
	"github.com/mcoot/fourpics/internal/dependencies/random"
	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/services/content"
	"github.com/mcoot/fourpics/internal/services/letters"
)

// Config holds the acceptance rule for fetched content
type Config struct {
	MaxWordLength  int
	MinPhotos      int
	PhotosPerRound int
	MaxAttempts    int // 0 retries until the context ends
}

// DefaultConfig returns the standard round rules
func DefaultConfig() Config {
	return Config{
		MaxWordLength:  letters.MaxWordLength,
		MinPhotos:      4,
		PhotosPerRound: 4,
		MaxAttempts:    0,
	}
}

// Acquirer fetches words and photos until it finds a playable round
type Acquirer struct {
	words  content.WordSource
	photos content.PhotoSource
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
	config Config
}

// New creates a new round acquirer
func New(
	words content.WordSource,
	photos content.PhotoSource,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
	config Config,
) *Acquirer {
	return &Acquirer{
		words:  words,
		photos: photos,
		clock:  clk,
		random: rnd,
		logger: logger,
		config: config,
	}
}

// Acquire returns the first fetched round whose word fits the pool and has
// enough photos. Unsuitable content is discarded and fetched again from
// scratch. Upstream failures stop the search with an *model.AcquisitionError.
func (a *Acquirer) Acquire(ctx context.Context) (*model.Round, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a.config.MaxAttempts > 0 && attempt > a.config.MaxAttempts {
			return nil, fmt.Errorf("%w after %d attempts", model.ErrRoundUnavailable, a.config.MaxAttempts)
		}

		word, err := a.words.RandomWord(ctx)
		if err != nil {
			return nil, a.fail(ctx, model.StageWord, err)
		}
		word = strings.ToUpper(strings.TrimSpace(word))
		if !a.playableWord(word) {
			a.logger.Debug("discarding unplayable word",
				slog.String("word", word),
				slog.Int("attempt", attempt),
			)
			continue
		}

		photos, err := a.photos.SearchPhotos(ctx, word, a.config.PhotosPerRound)
		if err != nil {
			return nil, a.fail(ctx, model.StagePhotos, err)
		}
		if len(photos) < a.config.MinPhotos {
			a.logger.Debug("discarding word without enough photos",
				slog.String("word", word),
				slog.Int("photos", len(photos)),
				slog.Int("attempt", attempt),
			)
			continue
		}
		if len(photos) > a.config.PhotosPerRound {
			photos = photos[:a.config.PhotosPerRound]
		}

		tiles, err := letters.BuildTiles(a.random, word)
		if err != nil {
			return nil, err
		}

		round := &model.Round{
			ID:        model.RoundID(uuid.NewString()),
			Word:      word,
			Tiles:     tiles,
			Photos:    photos,
			Attempts:  attempt,
			CreatedAt: a.clock.Now(),
		}
		a.logger.Info("round acquired",
			slog.String("round_id", string(round.ID)),
			slog.Int("word_length", len(word)),
			slog.Int("attempts", attempt),
		)
		return round, nil
	}
}

// fail wraps an upstream failure, passing context cancellation through as-is
func (a *Acquirer) fail(ctx context.Context, stage model.AcquisitionStage, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	a.logger.Warn("round acquisition failed",
		slog.String("stage", string(stage)),
		slog.String("error", err.Error()),
	)
	return &model.AcquisitionError{Stage: stage, Err: err}
}

func (a *Acquirer) playableWord(word string) bool {
	if word == "" || len(word) > a.config.MaxWordLength {
		return false
	}
	for _, r := range word {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// AcquirerInterface for dependency injection
type AcquirerInterface interface {
	Acquire(ctx context.Context) (*model.Round, error)
}

var _ AcquirerInterface = (*Acquirer)(nil)
