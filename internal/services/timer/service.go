// Package timer schedules a single expiry check per ongoing game. Firing
// is idempotent: the session controller treats expiry of a terminal game as
// a no-op, so a timer racing a winning guess or a give-up can never corrupt
// state.
package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmorelli/guessphrase/internal/dependencies/clock"
	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/storage"
)

// expireTimeout bounds the storage work done from a timer callback
const expireTimeout = 10 * time.Second

// Expirer receives the expiry transition when a deadline elapses
type Expirer interface {
	Expire(ctx context.Context, gameID model.GameID) error
}

// Service tracks round deadlines and fires expiry transitions
type Service struct {
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	expirer Expirer
	pending map[model.GameID]*time.Timer
	closed  bool
}

// New creates a new timer service. Bind must be called before any
// scheduled deadline can fire usefully.
func New(clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		clock:   clock,
		logger:  logger,
		pending: make(map[model.GameID]*time.Timer),
	}
}

// Bind sets the expirer invoked when deadlines elapse. Split from New
// because the session controller and the timer reference each other.
func (s *Service) Bind(expirer Expirer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expirer = expirer
}

// Schedule arms (or re-arms) the expiry check for a game. A deadline
// already in the past fires immediately.
func (s *Service) Schedule(gameID model.GameID, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if t, ok := s.pending[gameID]; ok {
		t.Stop()
	}

	d := deadline.Sub(s.clock.Now())
	if d < 0 {
		d = 0
	}
	s.pending[gameID] = time.AfterFunc(d, func() { s.fire(gameID) })
}

// Cancel disarms the expiry check for a game. Safe to call for games that
// were never scheduled or whose timer already fired.
func (s *Service) Cancel(gameID model.GameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[gameID]; ok {
		t.Stop()
		delete(s.pending, gameID)
	}
}

// Resume re-arms expiry checks for every ongoing game in storage. Called
// at process start so a restart does not orphan running rounds.
func (s *Service) Resume(ctx context.Context, store storage.Storage) error {
	games, err := store.ListOngoingGames(ctx)
	if err != nil {
		return err
	}

	for _, game := range games {
		s.Schedule(game.ID, game.Deadline)
	}

	if len(games) > 0 {
		s.logger.Info("resumed expiry timers", slog.Int("count", len(games)))
	}
	return nil
}

// Close stops all pending timers; further Schedule calls are ignored
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}

func (s *Service) fire(gameID model.GameID) {
	s.mu.Lock()
	delete(s.pending, gameID)
	expirer := s.expirer
	s.mu.Unlock()

	if expirer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
	defer cancel()

	if err := expirer.Expire(ctx, gameID); err != nil {
		s.logger.Error("expiry transition failed",
			slog.Int64("game_id", int64(gameID)),
			slog.String("error", err.Error()),
		)
	}
}
