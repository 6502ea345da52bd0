package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fourpics/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newGame(id model.GameID, playerID model.PlayerID, created time.Time) *model.Game {
	round := &model.Round{
		ID:     "round-1",
		Word:   "CAT",
		Tiles:  []rune("CATXXXXXXXXX"),
		Photos: []model.Photo{{ID: 1, URL: "a"}, {ID: 2, URL: "b"}, {ID: 3, URL: "c"}, {ID: 4, URL: "d"}},
	}
	return &model.Game{
		ID:         id,
		PlayerID:   playerID,
		Status:     model.GameStatusPlaying,
		Round:      round,
		Puzzle:     model.NewPuzzle(round.Word, round.Tiles),
		Generation: 1,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice", CreatedAt: time.Now()}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1"})

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "player-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.PlayerID)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := newGame("game-1", "player-1", time.Now())
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game, retrieved)
}

func (s *StorageSuite) TestSavedGameIsACopy() {
	game := newGame("game-1", "player-1", time.Now())
	_ = s.storage.SaveGame(s.ctx, game)

	game.Puzzle.Assign(0, 0)
	retrieved, _ := s.storage.GetGame(s.ctx, "game-1")
	s.Equal(0, retrieved.Puzzle.FilledCount())

	retrieved.Puzzle.Assign(1, 1)
	again, _ := s.storage.GetGame(s.ctx, "game-1")
	s.Equal(0, again.Puzzle.FilledCount())
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGetGamesForPlayerNewestFirst() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = s.storage.SaveGame(s.ctx, newGame("game-old", "player-1", base))
	_ = s.storage.SaveGame(s.ctx, newGame("game-new", "player-1", base.Add(time.Hour)))
	_ = s.storage.SaveGame(s.ctx, newGame("game-other", "player-2", base))

	games, err := s.storage.GetGamesForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("game-new"), games[0].ID)
	s.Equal(model.GameID("game-old"), games[1].ID)
}

func (s *StorageSuite) TestDeleteGameRemovesFromIndex() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "player-1", time.Now()))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	games, err := s.storage.GetGamesForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Empty(games)
}

// Dictionary tests

func (s *StorageSuite) TestDictionaryNotLoaded() {
	_, err := s.storage.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *StorageSuite) TestSaveAndGetDictionary() {
	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, []string{"cat", "dog"}))

	words, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"cat", "dog"}, words)
}
