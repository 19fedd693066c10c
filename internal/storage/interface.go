package storage

import (
	"context"

	"github.com/dmorelli/guessphrase/internal/model"
)

// Storage defines the interface for data persistence. Create operations
// assign the record's ID from a backend-owned sequence. DebitCoins and
// CreditCoins must be atomic with respect to the stored balance: two
// concurrent debits against the same player must never both succeed if
// their sum exceeds the balance.
type Storage interface {
	// Player operations
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Coin balance operations. DebitCoins fails with
	// model.ErrInsufficientFunds when amount exceeds the balance, leaving
	// the balance unchanged. Both return the new balance.
	DebitCoins(ctx context.Context, id model.PlayerID, amount int64) (int64, error)
	CreditCoins(ctx context.Context, id model.PlayerID, amount int64) (int64, error)

	// Game operations
	CreateGame(ctx context.Context, game *model.Game) error
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListOngoingGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
}
