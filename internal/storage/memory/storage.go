package memory

import (
	"context"
	"sync"

	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	usernameIndex map[string]model.PlayerID
	games         map[model.GameID]*model.Game

	nextPlayerID model.PlayerID
	nextGameID   model.GameID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*model.Player),
		usernameIndex: make(map[string]model.PlayerID),
		games:         make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usernameIndex[player.Username]; ok {
		return model.ErrUsernameExists
	}
	s.nextPlayerID++
	player.ID = s.nextPlayerID
	copied := *player
	s.players[player.ID] = &copied
	s.usernameIndex[player.Username] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player, ok := s.players[id]; ok {
		delete(s.usernameIndex, player.Username)
	}
	delete(s.players, id)
	return nil
}

// Coin balance operations

func (s *Storage) DebitCoins(ctx context.Context, id model.PlayerID, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return 0, model.ErrPlayerNotFound
	}
	if amount > player.Coins {
		return 0, model.ErrInsufficientFunds
	}
	player.Coins -= amount
	return player.Coins, nil
}

func (s *Storage) CreditCoins(ctx context.Context, id model.PlayerID, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return 0, model.ErrPlayerNotFound
	}
	player.Coins += amount
	return player.Coins, nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGameID++
	game.ID = s.nextGameID
	copied := *game
	s.games[game.ID] = &copied
	return nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *game
	s.games[game.ID] = &copied
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (s *Storage) ListOngoingGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Game
	for _, game := range s.games {
		if game.State == model.GameStateOngoing {
			copied := *game
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}
