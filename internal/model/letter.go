package model

import "unicode"

// Letter is a purchasable hint unit: guessing this character costs Cost coins.
// Letters are immutable once defined; the catalog holding them is static
// process-wide configuration.
type Letter struct {
	ID   int
	Char rune // single uppercase character
	Cost int64
}

// NewLetter canonicalizes the character to uppercase on construction
func NewLetter(id int, char rune, cost int64) Letter {
	return Letter{ID: id, Char: unicode.ToUpper(char), Cost: cost}
}

// Affordable reports whether a balance covers the letter's cost
func Affordable(l Letter, balance int64) bool {
	return balance >= l.Cost
}
