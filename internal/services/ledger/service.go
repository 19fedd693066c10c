// Package ledger mediates all coin balance changes. Atomicity lives in the
// storage backend; this service adds validation and an audit trail in the
// logs.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/storage"
)

// Service performs atomic coin debits and credits against player balances
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new ledger service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Balance returns a player's current coin balance
func (s *Service) Balance(ctx context.Context, playerID model.PlayerID) (int64, error) {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return player.Coins, nil
}

// Debit removes coins from a player's balance, all-or-nothing. Fails with
// model.ErrInsufficientFunds when the amount exceeds the balance, leaving
// it unchanged.
func (s *Service) Debit(ctx context.Context, playerID model.PlayerID, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("debit amount must be non-negative, got %d", amount)
	}

	balance, err := s.storage.DebitCoins(ctx, playerID, amount)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("coins debited",
		slog.Int64("player_id", int64(playerID)),
		slog.Int64("amount", amount),
		slog.Int64("balance", balance),
	)
	return balance, nil
}

// Credit adds coins to a player's balance
func (s *Service) Credit(ctx context.Context, playerID model.PlayerID, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit amount must be non-negative, got %d", amount)
	}

	balance, err := s.storage.CreditCoins(ctx, playerID, amount)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("coins credited",
		slog.Int64("player_id", int64(playerID)),
		slog.Int64("amount", amount),
		slog.Int64("balance", balance),
	)
	return balance, nil
}
