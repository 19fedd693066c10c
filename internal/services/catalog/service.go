// Package catalog holds the static letter price list consulted before every
// guess. Lookups are case-insensitive; characters outside the catalog fail
// with model.ErrUnknownLetter and must be rejected before any purchase logic.
package catalog

import (
	"sort"
	"unicode"

	"github.com/dmorelli/guessphrase/internal/model"
)

// Service answers letter cost and affordability queries
type Service struct {
	letters map[rune]model.Letter
}

// New creates a catalog from the given price list. Characters are
// canonicalized to uppercase on insertion; a duplicate character keeps the
// last entry.
func New(letters []model.Letter) *Service {
	m := make(map[rune]model.Letter, len(letters))
	for _, l := range letters {
		l.Char = unicode.ToUpper(l.Char)
		m[l.Char] = l
	}
	return &Service{letters: m}
}

// Default creates a catalog with the default A-Z price list
func Default() *Service {
	return New(DefaultLetters())
}

// Lookup returns the catalog entry for a character
func (s *Service) Lookup(char rune) (model.Letter, error) {
	l, ok := s.letters[unicode.ToUpper(char)]
	if !ok {
		return model.Letter{}, model.ErrUnknownLetter
	}
	return l, nil
}

// Cost returns the purchase cost of a character
func (s *Service) Cost(char rune) (int64, error) {
	l, err := s.Lookup(char)
	if err != nil {
		return 0, err
	}
	return l.Cost, nil
}

// Affordable reports whether the balance covers the character's cost
func (s *Service) Affordable(char rune, balance int64) (bool, error) {
	l, err := s.Lookup(char)
	if err != nil {
		return false, err
	}
	return model.Affordable(l, balance), nil
}

// Letters returns all catalog entries ordered by ID
func (s *Service) Letters() []model.Letter {
	out := make([]model.Letter, 0, len(s.letters))
	for _, l := range s.letters {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultLetters prices the alphabet by how often a letter appears in
// phrases: vowels and frequent consonants are the expensive hints.
func DefaultLetters() []model.Letter {
	costs := map[rune]int64{
		'A': 8, 'E': 8, 'I': 8, 'O': 8, 'U': 8,
		'L': 5, 'N': 5, 'R': 5, 'S': 5, 'T': 5,
		'C': 3, 'D': 3, 'G': 3, 'H': 3, 'M': 3, 'P': 3,
		'B': 2, 'F': 2, 'V': 2, 'W': 2, 'Y': 2,
		'J': 1, 'K': 1, 'Q': 1, 'X': 1, 'Z': 1,
	}

	letters := make([]model.Letter, 0, 26)
	for i, c := 0, 'A'; c <= 'Z'; i, c = i+1, c+1 {
		letters = append(letters, model.NewLetter(i+1, c, costs[c]))
	}
	return letters
}
