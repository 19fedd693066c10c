// Package postgres implements the storage interface on PostgreSQL. Coin
// debits rely on a single conditional UPDATE so concurrent debits against
// one player serialize at the row and can never overdraw the balance.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to the database and applies pending migrations
func New(dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Storage{pool: pool}

	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close releases the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO players (username, password_hash, mail, coins, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		player.Username, player.PasswordHash, player.Mail, player.Coins,
		player.CreatedAt, player.UpdatedAt,
	).Scan(&player.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.getPlayer(ctx,
		`SELECT id, username, password_hash, mail, coins, created_at, updated_at
		 FROM players WHERE id = $1`, int64(id))
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	return s.getPlayer(ctx,
		`SELECT id, username, password_hash, mail, coins, created_at, updated_at
		 FROM players WHERE username = $1`, username)
}

func (s *Storage) getPlayer(ctx context.Context, query string, arg any) (*model.Player, error) {
	var p model.Player
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Username, &p.PasswordHash, &p.Mail, &p.Coins,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("select player: %w", err)
	}
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

// Coin balance operations

func (s *Storage) DebitCoins(ctx context.Context, id model.PlayerID, amount int64) (int64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx,
		`UPDATE players
		 SET coins = coins - $2, updated_at = now()
		 WHERE id = $1 AND coins >= $2
		 RETURNING coins`,
		int64(id), amount,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The guard rejected the row: either no such player or overdraft
			if _, gerr := s.GetPlayer(ctx, id); gerr != nil {
				return 0, gerr
			}
			return 0, model.ErrInsufficientFunds
		}
		return 0, fmt.Errorf("debit coins: %w", err)
	}
	return balance, nil
}

func (s *Storage) CreditCoins(ctx context.Context, id model.PlayerID, amount int64) (int64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx,
		`UPDATE players
		 SET coins = coins + $2, updated_at = now()
		 WHERE id = $1
		 RETURNING coins`,
		int64(id), amount,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrPlayerNotFound
		}
		return 0, fmt.Errorf("credit coins: %w", err)
	}
	return balance, nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO games (player_id, phrase_tot, phrase_partial, deadline, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		int64(game.PlayerID), game.PhraseTot, game.PhrasePartial,
		game.Deadline, string(game.State), game.CreatedAt, game.UpdatedAt,
	).Scan(&game.ID)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE games
		 SET phrase_partial = $2, deadline = $3, state = $4, updated_at = $5
		 WHERE id = $1`,
		int64(game.ID), game.PhrasePartial, game.Deadline,
		string(game.State), game.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGameNotFound
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var g model.Game
	var state string
	err := s.pool.QueryRow(ctx,
		`SELECT id, player_id, phrase_tot, phrase_partial, deadline, state, created_at, updated_at
		 FROM games WHERE id = $1`, int64(id),
	).Scan(&g.ID, &g.PlayerID, &g.PhraseTot, &g.PhrasePartial, &g.Deadline,
		&state, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("select game: %w", err)
	}
	g.State = model.GameState(state)
	return &g, nil
}

func (s *Storage) ListOngoingGames(ctx context.Context) ([]*model.Game, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, player_id, phrase_tot, phrase_partial, deadline, state, created_at, updated_at
		 FROM games WHERE state = $1`, string(model.GameStateOngoing))
	if err != nil {
		return nil, fmt.Errorf("select ongoing games: %w", err)
	}
	defer rows.Close()

	var games []*model.Game
	for rows.Next() {
		var g model.Game
		var state string
		if err := rows.Scan(&g.ID, &g.PlayerID, &g.PhraseTot, &g.PhrasePartial,
			&g.Deadline, &state, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.State = model.GameState(state)
		games = append(games, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}
