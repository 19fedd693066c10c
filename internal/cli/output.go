package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case GuessResult:
		o.printGuessResult(v)
	case []Letter:
		o.printLetters(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Mail     string `json:"mail,omitempty"`
	Coins    int64  `json:"coins"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Slot response type
type Slot struct {
	Char  string `json:"char"`
	Final bool   `json:"final"`
}

// Game response type
type Game struct {
	ID               int64    `json:"id"`
	State            string   `json:"state"`
	Words            [][]Slot `json:"words"`
	RemainingSeconds int64    `json:"remaining_seconds"`
	Phrase           string   `json:"phrase,omitempty"`
}

// GuessResult response type
type GuessResult struct {
	Game     Game   `json:"game"`
	Letter   string `json:"letter"`
	Revealed int    `json:"revealed"`
	Balance  int64  `json:"balance"`
}

// Letter response type
type Letter struct {
	ID   int    `json:"id"`
	Char string `json:"char"`
	Cost int64  `json:"cost"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (#%d)\n", p.Username, p.ID)
	if p.Mail != "" {
		fmt.Printf("Mail: %s\n", p.Mail)
	}
	fmt.Printf("Coins: %d\n", p.Coins)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: #%d\n", g.ID)
	fmt.Printf("State: %s\n", g.State)
	if g.State == "ongoing" {
		fmt.Printf("Time left: %ds\n", g.RemainingSeconds)
	}
	fmt.Printf("Board: %s\n", renderWords(g.Words))
	if g.Phrase != "" {
		fmt.Printf("Phrase: %s\n", strings.ReplaceAll(g.Phrase, "*", " "))
	}
}

func (o *Output) printGuessResult(r GuessResult) {
	if r.Revealed > 0 {
		fmt.Printf("Letter %s revealed %d position(s)\n", r.Letter, r.Revealed)
	} else {
		fmt.Printf("Letter %s revealed nothing\n", r.Letter)
	}
	fmt.Printf("Coins: %d\n", r.Balance)
	o.printGame(r.Game)
}

func (o *Output) printLetters(letters []Letter) {
	fmt.Println("Letter prices:")
	for _, l := range letters {
		fmt.Printf("  %s: %d\n", l.Char, l.Cost)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

// renderWords draws the board as underscores for hidden slots and letters
// for revealed ones, e.g. "_ _ L L _   _ _ _ L _"
func renderWords(words [][]Slot) string {
	rendered := make([]string, len(words))
	for i, word := range words {
		parts := make([]string, len(word))
		for j, s := range word {
			if s.Char == "" {
				parts[j] = "_"
			} else {
				parts[j] = s.Char
			}
		}
		rendered[i] = strings.Join(parts, " ")
	}
	return strings.Join(rendered, "   ")
}
