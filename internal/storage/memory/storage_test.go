package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/stretchr/testify/suite"
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

// Player tests

func (s *StorageSuite) TestCreateAndGetPlayer() {
	player := &model.Player{
		Username:     "alice",
		PasswordHash: "hash123",
		Mail:         "alice@example.com",
		Coins:        100,
		CreatedAt:    time.Now(),
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

	err := s.storage.DeletePlayer(s.ctx, player.ID)
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, player.ID)
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
}

func (s *StorageSuite) TestDebitCoinsOverdraft() {
	player := &model.Player{Username: "alice", Coins: 3}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	_, err := s.storage.DebitCoins(s.ctx, player.ID, 5)
	s.ErrorIs(err, model.ErrInsufficientFunds)

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), retrieved.Coins, "failed debit must not change the balance")
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

func (s *StorageSuite) TestConcurrentDebitsNeverOverdraw() {
	player := &model.Player{Username: "alice", Coins: 10}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	var wg sync.WaitGroup
	succeeded := make(chan struct{}, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.storage.DebitCoins(s.ctx, player.ID, 1); err == nil {
				succeeded <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	s.Len(succeeded, 10, "exactly balance/amount debits may succeed")

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), retrieved.Coins)
}

// Game tests

func (s *StorageSuite) TestCreateAndGetGame() {
	game := &model.Game{
		PlayerID:      1,
		PhraseTot:     "Hello*World",
		PhrasePartial: "     *     ",
		State:         model.GameStateOngoing,
		Deadline:      time.Now().Add(time.Minute),
	}

	err := s.storage.CreateGame(s.ctx, game)
	s.Require().NoError(err)
	s.NotZero(game.ID)

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.PhraseTot, retrieved.PhraseTot)
	s.Equal(model.GameStateOngoing, retrieved.State)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, 404)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveGameUpdates() {
	game := &model.Game{PlayerID: 1, State: model.GameStateOngoing}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	game.State = model.GameStateWon
	game.PhrasePartial = "HELLO"
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateWon, retrieved.State)
	s.Equal("HELLO", retrieved.PhrasePartial)
}

func (s *StorageSuite) TestCreatePlayerDetachesCallerRecord() {
	player := &model.Player{Username: "alice", Coins: 10}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	player.Coins = 9999

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(10), stored.Coins, "mutating the caller's record must not touch the store")
}

func (s *StorageSuite) TestGetGameReturnsCopy() {
	game := &model.Game{PlayerID: 1, State: model.GameStateOngoing}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	first, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	first.State = model.GameStateLost

	second, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateOngoing, second.State, "mutating a loaded game must not touch the store")
}

func (s *StorageSuite) TestListOngoingGames() {
	ongoing := &model.Game{PlayerID: 1, State: model.GameStateOngoing}
	finished := &model.Game{PlayerID: 1, State: model.GameStateWon}
	s.Require().NoError(s.storage.CreateGame(s.ctx, ongoing))
	s.Require().NoError(s.storage.CreateGame(s.ctx, finished))
	finished.State = model.GameStateWon
	s.Require().NoError(s.storage.SaveGame(s.ctx, finished))

	games, err := s.storage.ListOngoingGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(ongoing.ID, games[0].ID)
}

func (s *StorageSuite) TestDeleteGame() {
	game := &model.Game{PlayerID: 1}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, game.ID))

	_, err := s.storage.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}
