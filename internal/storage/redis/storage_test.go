package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/dmorelli/guessphrase/internal/model"
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
	cfg.FinishedGameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestCreateAndGetPlayer() {
	player := &model.Player{
		Username:     "alice",
		PasswordHash: "hash123",
		Mail:         "alice@example.com",
		Coins:        100,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.storage.CreatePlayer(s.ctx, player)
	s.Require().NoError(err)
	s.NotZero(player.ID)

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal(int64(100), retrieved.Coins)
}

func (s *StorageSuite) TestCreatePlayerAssignsSequentialIDs() {
	p1 := &model.Player{Username: "alice"}
	p2 := &model.Player{Username: "bob"}

	s.Require().NoError(s.storage.CreatePlayer(s.ctx, p1))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, p2))

	s.Equal(model.PlayerID(1), p1.ID)
	s.Equal(model.PlayerID(2), p2.ID)
}

func (s *StorageSuite) TestCreatePlayerDuplicateUsername() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{Username: "alice"}))

	err := s.storage.CreatePlayer(s.ctx, &model.Player{Username: "alice"})
	s.ErrorIs(err, model.ErrUsernameExists)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, 999)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByUsername() {
	player := &model.Player{Username: "alice"}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)

	_, err = s.storage.GetPlayerByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{Username: "alice"}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, player.ID))

	_, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Coin balance tests

func (s *StorageSuite) TestDebitCoins() {
	player := &model.Player{Username: "alice", Coins: 10}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	balance, err := s.storage.DebitCoins(s.ctx, player.ID, 4)
	s.Require().NoError(err)
	s.Equal(int64(6), balance)

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(6), retrieved.Coins)
}

func (s *StorageSuite) TestDebitCoinsOverdraft() {
	player := &model.Player{Username: "alice", Coins: 3}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	_, err := s.storage.DebitCoins(s.ctx, player.ID, 5)
	s.ErrorIs(err, model.ErrInsufficientFunds)

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), retrieved.Coins)
}

func (s *StorageSuite) TestCreditCoins() {
	player := &model.Player{Username: "alice", Coins: 3}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	balance, err := s.storage.CreditCoins(s.ctx, player.ID, 7)
	s.Require().NoError(err)
	s.Equal(int64(10), balance)
}

func (s *StorageSuite) TestDebitCoinsPlayerNotFound() {
	_, err := s.storage.DebitCoins(s.ctx, 42, 1)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Game tests

func (s *StorageSuite) TestCreateAndGetGame() {
	game := &model.Game{
		PlayerID:      1,
		PhraseTot:     "Hello*World",
		PhrasePartial: "     *     ",
		State:         model.GameStateOngoing,
		Deadline:      time.Now().UTC().Add(time.Minute),
	}

	err := s.storage.CreateGame(s.ctx, game)
	s.Require().NoError(err)
	s.NotZero(game.ID)

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.PhraseTot, retrieved.PhraseTot)
	s.Equal(game.PhrasePartial, retrieved.PhrasePartial)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, 404)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestOngoingGameHasNoTTL() {
	game := &model.Game{PlayerID: 1, State: model.GameStateOngoing}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	s.Equal(time.Duration(0), s.mini.TTL(gameKey(game.ID)))
}

func (s *StorageSuite) TestFinishedGameGetsTTL() {
	game := &model.Game{PlayerID: 1, State: model.GameStateOngoing}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	game.State = model.GameStateWon
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	s.True(s.mini.TTL(gameKey(game.ID)) > 0, "closed game should have a retention TTL")
}

func (s *StorageSuite) TestListOngoingGames() {
	ongoing := &model.Game{PlayerID: 1, State: model.GameStateOngoing}
	s.Require().NoError(s.storage.CreateGame(s.ctx, ongoing))

	finished := &model.Game{PlayerID: 1, State: model.GameStateOngoing}
	s.Require().NoError(s.storage.CreateGame(s.ctx, finished))
	finished.State = model.GameStateExpired
	s.Require().NoError(s.storage.SaveGame(s.ctx, finished))

	games, err := s.storage.ListOngoingGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(ongoing.ID, games[0].ID)
}

func (s *StorageSuite) TestDeleteGame() {
	game := &model.Game{PlayerID: 1, State: model.GameStateOngoing}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, game.ID))

	_, err := s.storage.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)

	games, err := s.storage.ListOngoingGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}
