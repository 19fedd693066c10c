package model

import "time"

// GameID uniquely identifies a game
type GameID int64

// GameState represents the lifecycle phase of a game
type GameState string

const (
	GameStateOngoing GameState = "ongoing" // Round in progress, guesses accepted
	GameStateWon     GameState = "won"     // Every letter revealed before the deadline
	GameStateLost    GameState = "lost"    // Player gave up
	GameStateExpired GameState = "expired" // Deadline elapsed
)

// Game represents a single guessing round. PhraseTot and PhrasePartial are
// canonical phrase text: words joined by a single separator, with unrevealed
// letters in PhrasePartial held as blank placeholders. The two always share
// the same length and separator positions.
type Game struct {
	ID       GameID
	PlayerID PlayerID

	PhraseTot     string // full secret phrase, never shown while ongoing
	PhrasePartial string // currently revealed form

	Deadline time.Time
	State    GameState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true once the game has closed; terminal games reject
// all further mutation.
func (g *Game) IsTerminal() bool {
	return g.State != GameStateOngoing
}

// Remaining returns the time budget left at the given instant, floored at zero
func (g *Game) Remaining(now time.Time) time.Duration {
	if d := g.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}
