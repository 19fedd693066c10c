package response

import (
	"time"

	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/phrase"
	"github.com/dmorelli/guessphrase/internal/services/auth"
	"github.com/dmorelli/guessphrase/internal/services/session"
)

// Player represents a player in API responses
type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Mail     string `json:"mail,omitempty"`
	Coins    int64  `json:"coins"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       int64(p.ID),
		Username: p.Username,
		Mail:     p.Mail,
		Coins:    p.Coins,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFor creates an AuthResponse for a player and their session
func AuthResponseFor(p *model.Player, s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(p),
		SessionToken: s.Token,
	}
}

// Slot is one character position within a word. Char is empty while the
// position is still hidden.
type Slot struct {
	Char  string `json:"char"`
	Final bool   `json:"final"`
}

// Game represents a game in API responses. Words holds the player-visible
// board; Phrase carries the full solution and is only populated once the
// game is over.
type Game struct {
	ID               int64     `json:"id"`
	State            string    `json:"state"`
	Words            [][]Slot  `json:"words"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Phrase           string    `json:"phrase,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game, now time.Time) Game {
	terminal := g.IsTerminal()
	out := Game{
		ID:        int64(g.ID),
		State:     string(g.State),
		Words:     slotsFromView(session.View(g)),
		CreatedAt: g.CreatedAt,
	}
	if terminal {
		out.Phrase = phrase.Mask(g.PhraseTot, false)
	} else {
		out.RemainingSeconds = int64(g.Remaining(now).Seconds())
	}
	return out
}

// GuessResponse is the response for a letter purchase
type GuessResponse struct {
	Game     Game   `json:"game"`
	Letter   string `json:"letter"`
	Revealed int    `json:"revealed"`
	Balance  int64  `json:"balance"`
}

// GuessResponseFromResult converts a session.GuessResult
func GuessResponseFromResult(r *session.GuessResult, now time.Time) GuessResponse {
	return GuessResponse{
		Game:     GameFromModel(r.Game, now),
		Letter:   string(r.Letter.Char),
		Revealed: r.Revealed,
		Balance:  r.Balance,
	}
}

// Letter represents a purchasable letter in API responses
type Letter struct {
	ID   int    `json:"id"`
	Char string `json:"char"`
	Cost int64  `json:"cost"`
}

// LetterFromModel converts a model.Letter
func LetterFromModel(l model.Letter) Letter {
	return Letter{
		ID:   l.ID,
		Char: string(l.Char),
		Cost: l.Cost,
	}
}

// LettersFromModel converts a catalog listing
func LettersFromModel(ls []model.Letter) []Letter {
	out := make([]Letter, len(ls))
	for i, l := range ls {
		out[i] = LetterFromModel(l)
	}
	return out
}

func slotsFromView(words [][]phrase.SimpleLett) [][]Slot {
	out := make([][]Slot, len(words))
	for i, word := range words {
		slots := make([]Slot, len(word))
		for j, s := range word {
			slot := Slot{Final: s.Final}
			if s.Value != phrase.Blank {
				slot.Char = string(s.Value)
			}
			slots[j] = slot
		}
		out[i] = slots
	}
	return out
}
