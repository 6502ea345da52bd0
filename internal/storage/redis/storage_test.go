package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fourpics/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})
	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.GameTTL = time.Hour
	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func newGame(id model.GameID, playerID model.PlayerID, created time.Time) *model.Game {
	round := &model.Round{
		ID:        "round-1",
		Word:      "CAT",
		Tiles:     []rune("CATXXXXXXXXX"),
		Photos:    []model.Photo{{ID: 1, URL: "a"}, {ID: 2, URL: "b"}, {ID: 3, URL: "c"}, {ID: 4, URL: "d"}},
		CreatedAt: created,
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
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGuestPlayerTTL() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "guest-1", IsGuest: true})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "registered-1"})

	s.True(s.mini.TTL(playerKey("guest-1")) > 0, "guest player should expire")
	s.Equal(time.Duration(0), s.mini.TTL(playerKey("registered-1")))
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
	s.Equal("hash", retrieved.PasswordHash)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGameRoundTripsPuzzle() {
	game := newGame("game-1", "player-1", time.Now())
	game.Puzzle.Assign(0, 0)
	game.Puzzle.Tiles[5].Offset = model.Point{X: 12.5, Y: -3}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.Round.Word, retrieved.Round.Word)
	s.Equal(game.Round.Tiles, retrieved.Round.Tiles)
	s.Equal(game.Round.Photos, retrieved.Round.Photos)
	s.Equal(game.Puzzle.Slots, retrieved.Puzzle.Slots)
	s.Equal(game.Puzzle.Tiles, retrieved.Puzzle.Tiles)
	s.Equal(game.Puzzle.Assignment, retrieved.Puzzle.Assignment)
	s.NoError(retrieved.Puzzle.CheckInvariants())
	s.True(game.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestGameTTL() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "player-1", time.Now()))

	s.True(s.mini.TTL(gameKey("game-1")) > 0)
	s.True(s.mini.TTL(gamesForPlayerIndexKey("player-1")) > 0)
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

func (s *StorageSuite) TestGetGamesForPlayerSkipsExpired() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "player-1", time.Now()))
	_ = s.storage.SaveGame(s.ctx, newGame("game-2", "player-1", time.Now()))
	s.mini.Del(gameKey("game-1"))

	games, err := s.storage.GetGamesForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-2"), games[0].ID)
}

func (s *StorageSuite) TestGetGamesForPlayerEmpty() {
	games, err := s.storage.GetGamesForPlayer(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "player-1", time.Now()))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))
	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
	members, _ := s.mini.Members(gamesForPlayerIndexKey("player-1"))
	s.Empty(members)
}

// Dictionary tests

func (s *StorageSuite) TestDictionaryNotLoaded() {
	_, err := s.storage.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *StorageSuite) TestSaveDictionaryReplacesWords() {
	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, []string{"cat", "dog"}))
	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, []string{"fish"}))

	words, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"fish"}, words)
}
