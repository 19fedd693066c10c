package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/storage"
)

// maxBalanceRetries bounds optimistic retries when a concurrent write
// invalidates a WATCHed coin balance update.
const maxBalanceRetries = 16

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	// Username index doubles as a uniqueness guard
	set, err := s.client.SetNX(ctx, usernameIndexKey(player.Username), 0, 0).Result()
	if err != nil {
		return err
	}
	if !set {
		return model.ErrUsernameExists
	}

	id, err := s.client.Incr(ctx, playerSeqKey).Result()
	if err != nil {
		return err
	}
	player.ID = model.PlayerID(id)

	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(player.Username), id, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.Del(ctx, usernameIndexKey(player.Username))
	_, err = pipe.Exec(ctx)
	return err
}

// Coin balance operations
//
// Balances live inside the player JSON record, so updates go through a
// WATCH transaction: read the record, adjust the balance, and write it back
// only if no concurrent write touched the key.

func (s *Storage) DebitCoins(ctx context.Context, id model.PlayerID, amount int64) (int64, error) {
	return s.adjustCoins(ctx, id, -amount)
}

func (s *Storage) CreditCoins(ctx context.Context, id model.PlayerID, amount int64) (int64, error) {
	return s.adjustCoins(ctx, id, amount)
}

func (s *Storage) adjustCoins(ctx context.Context, id model.PlayerID, delta int64) (int64, error) {
	key := playerKey(id)
	var newBalance int64

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}

		if player.Coins+delta < 0 {
			return model.ErrInsufficientFunds
		}
		player.Coins += delta
		newBalance = player.Coins

		updated, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxBalanceRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return newBalance, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return 0, err
	}

	return 0, fmt.Errorf("coin balance update for player %d kept conflicting", id)
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	id, err := s.client.Incr(ctx, gameSeqKey).Result()
	if err != nil {
		return err
	}
	game.ID = model.GameID(id)

	return s.SaveGame(ctx, game)
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	key := gameKey(game.ID)

	// Keep the ongoing index in sync with the game's state; closed games
	// fall out of the index and pick up a retention TTL.
	pipe := s.client.Pipeline()
	if game.State == model.GameStateOngoing {
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, ongoingGamesKey, int64(game.ID))
	} else {
		pipe.Set(ctx, key, data, s.cfg.FinishedGameTTL)
		pipe.SRem(ctx, ongoingGamesKey, int64(game.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListOngoingGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, ongoingGamesKey).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(ids))
	for _, raw := range ids {
		var id model.GameID
		if _, err := fmt.Sscanf(raw, "%d", &id); err != nil {
			continue
		}
		game, err := s.GetGame(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				// Stale index entry
				_ = s.client.SRem(ctx, ongoingGamesKey, raw).Err()
				continue
			}
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, ongoingGamesKey, int64(id))
	_, err := pipe.Exec(ctx)
	return err
}
