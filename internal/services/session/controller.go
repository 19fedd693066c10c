// Package session drives the game state machine: one ongoing round per
// Game record, mutated by guesses, give-ups, and timer expiry. Every
// mutating operation on a given game is serialized through a per-game lock,
// and a transition only counts once the store confirms the save.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmorelli/guessphrase/internal/dependencies/clock"
	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/phrase"
	"github.com/dmorelli/guessphrase/internal/services/catalog"
	"github.com/dmorelli/guessphrase/internal/services/ledger"
	"github.com/dmorelli/guessphrase/internal/storage"
)

// Scheduler is the timer hook the controller notifies about round
// deadlines. It may be nil, in which case rounds only expire when Expire is
// called directly.
type Scheduler interface {
	Schedule(gameID model.GameID, deadline time.Time)
	Cancel(gameID model.GameID)
}

// Config holds tunable round policy
type Config struct {
	// RoundDuration is the time budget of a round from start to deadline
	RoundDuration time.Duration
	// WinReward is credited to the player when a round is won (0 disables)
	WinReward int64
}

// DefaultConfig returns the default round policy
func DefaultConfig() Config {
	return Config{
		RoundDuration: 2 * time.Minute,
		WinReward:     50,
	}
}

// GuessResult describes the outcome of an accepted guess
type GuessResult struct {
	Game     *model.Game
	Letter   model.Letter
	Revealed int   // positions uncovered by this guess
	Balance  int64 // coin balance after the debit
}

// Controller manages game session state and transitions
type Controller struct {
	storage   storage.Storage
	catalog   *catalog.Service
	ledger    *ledger.Service
	scheduler Scheduler
	clock     clock.Clock
	logger    *slog.Logger
	cfg       Config

	mu    sync.Mutex
	locks map[model.GameID]*sync.Mutex
}

// NewController creates a new session controller
func NewController(
	storage storage.Storage,
	catalog *catalog.Service,
	ledger *ledger.Service,
	scheduler Scheduler,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.RoundDuration <= 0 {
		cfg.RoundDuration = DefaultConfig().RoundDuration
	}
	return &Controller{
		storage:   storage,
		catalog:   catalog,
		ledger:    ledger,
		scheduler: scheduler,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
		locks:     make(map[model.GameID]*sync.Mutex),
	}
}

// StartGame opens a new round for the player. The raw phrase is normalized
// to canonical form and fully masked; the deadline is the round duration
// from now.
func (c *Controller) StartGame(ctx context.Context, playerID model.PlayerID, rawPhrase string) (*model.Game, error) {
	canonical := phrase.Normalize(rawPhrase)
	if canonical == "" {
		return nil, model.ErrEmptyPhrase
	}

	if _, err := c.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		PlayerID:      playerID,
		PhraseTot:     canonical,
		PhrasePartial: phrase.Mask(canonical, true),
		Deadline:      now.Add(c.cfg.RoundDuration),
		State:         model.GameStateOngoing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.storage.CreateGame(ctx, game); err != nil {
		c.logger.Error("failed to create game",
			slog.Int64("player_id", int64(playerID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if c.scheduler != nil {
		c.scheduler.Schedule(game.ID, game.Deadline)
	}

	c.logger.Info("game started",
		slog.Int64("game_id", int64(game.ID)),
		slog.Int64("player_id", int64(playerID)),
		slog.Time("deadline", game.Deadline),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GuessLetter buys a hint: the letter's catalog cost is debited from the
// owner's balance, then every occurrence of the letter is revealed. A guess
// for a letter already revealed still charges. Revealing the last blank
// transitions the round to won.
func (c *Controller) GuessLetter(ctx context.Context, gameID model.GameID, letter rune) (*GuessResult, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.IsTerminal() {
		return nil, model.ErrGameFinished
	}

	lett, err := c.catalog.Lookup(letter)
	if err != nil {
		return nil, err
	}

	// The debit must settle before any phrase mutation: a failed purchase
	// leaves the session untouched.
	balance, err := c.ledger.Debit(ctx, game.PlayerID, lett.Cost)
	if err != nil {
		return nil, err
	}

	partial, revealed := phrase.Reveal(game.PhraseTot, game.PhrasePartial, lett.Char)
	game.PhrasePartial = partial
	won := phrase.IsComplete(partial)
	if won {
		game.State = model.GameStateWon
	}
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.Int64("game_id", int64(gameID)),
			slog.String("error", err.Error()),
		)
		// The reveal never committed, so the purchase bought nothing:
		// hand the coins back.
		if _, refundErr := c.ledger.Credit(ctx, game.PlayerID, lett.Cost); refundErr != nil {
			c.logger.Error("failed to refund letter cost",
				slog.Int64("game_id", int64(gameID)),
				slog.Int64("player_id", int64(game.PlayerID)),
				slog.Int64("amount", lett.Cost),
				slog.String("error", refundErr.Error()),
			)
		}
		return nil, err
	}

	c.logger.Debug("letter guessed",
		slog.Int64("game_id", int64(gameID)),
		slog.String("letter", string(lett.Char)),
		slog.Int("revealed", revealed),
		slog.Int64("balance", balance),
	)

	if won {
		if c.scheduler != nil {
			c.scheduler.Cancel(gameID)
		}
		if c.cfg.WinReward > 0 {
			if rewarded, err := c.ledger.Credit(ctx, game.PlayerID, c.cfg.WinReward); err != nil {
				c.logger.Error("failed to credit win reward",
					slog.Int64("game_id", int64(gameID)),
					slog.String("error", err.Error()),
				)
			} else {
				balance = rewarded
			}
		}
		c.logger.Info("game won",
			slog.Int64("game_id", int64(gameID)),
			slog.Int64("player_id", int64(game.PlayerID)),
		)
		c.release(gameID)
	}

	return &GuessResult{
		Game:     game,
		Letter:   lett,
		Revealed: revealed,
		Balance:  balance,
	}, nil
}

// GiveUp closes the round as lost and reveals the full phrase
func (c *Controller) GiveUp(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.IsTerminal() {
		return nil, model.ErrGameFinished
	}

	game.State = model.GameStateLost
	game.PhrasePartial = phrase.Mask(game.PhraseTot, false)
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	if c.scheduler != nil {
		c.scheduler.Cancel(gameID)
	}

	c.logger.Info("game given up",
		slog.Int64("game_id", int64(gameID)),
		slog.Int64("player_id", int64(game.PlayerID)),
	)
	c.release(gameID)

	return game, nil
}

// Expire closes the round when its deadline has elapsed. Idempotent from
// the timer's perspective: expiring an already terminal game is a no-op,
// not an error.
func (c *Controller) Expire(ctx context.Context, gameID model.GameID) error {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.IsTerminal() {
		return nil
	}

	game.State = model.GameStateExpired
	game.PhrasePartial = phrase.Mask(game.PhraseTot, false)
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return err
	}

	c.logger.Info("game expired",
		slog.Int64("game_id", int64(gameID)),
		slog.Int64("player_id", int64(game.PlayerID)),
	)
	c.release(gameID)

	return nil
}

// View projects a game into per-word display slots. While the round is
// ongoing only the revealed positions carry letters, so the full phrase
// never escapes through a view.
func View(game *model.Game) [][]phrase.SimpleLett {
	return phrase.ToSlots(game.PhrasePartial, game.IsTerminal())
}

// lock serializes mutating operations on a single game
func (c *Controller) lock(gameID model.GameID) func() {
	c.mu.Lock()
	l, ok := c.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[gameID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// release drops the lock entry once a game is terminal. A racing caller
// holding the old mutex only observes the terminal state and gets rejected,
// so losing lock identity at this point is harmless.
func (c *Controller) release(gameID model.GameID) {
	c.mu.Lock()
	delete(c.locks, gameID)
	c.mu.Unlock()
}

// Interface for dependency injection
type ControllerInterface interface {
	StartGame(ctx context.Context, playerID model.PlayerID, rawPhrase string) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GuessLetter(ctx context.Context, gameID model.GameID, letter rune) (*GuessResult, error)
	GiveUp(ctx context.Context, gameID model.GameID) (*model.Game, error)
	Expire(ctx context.Context, gameID model.GameID) error
}

var _ ControllerInterface = (*Controller)(nil)
