// Package phrase implements the canonical phrase encoding used for storage
// and transport: words joined by a single separator character, with
// unrevealed letters held as blank placeholders. The string form is strictly
// a boundary format; the engine works on the slot structure produced here.
package phrase

import (
	"strings"
	"unicode"
)

const (
	// Separator is the reserved word separator in canonical phrase text
	Separator = '*'
	// Blank is the placeholder for an unrevealed letter
	Blank = ' '
)

// SimpleLett is one character slot within a rendered phrase. Final marks the
// slot as permanently revealed in the view being rendered; a blank slot is
// never final.
type SimpleLett struct {
	Value rune
	Final bool
}

// Normalize converts raw phrase text to canonical form: surrounding
// whitespace trimmed, every run of whitespace collapsed to one separator.
// Idempotent.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), string(Separator))
}

// Mask renders a canonical phrase for display. With firstTime true every
// ASCII letter becomes a blank placeholder; everything else (digits,
// punctuation, the separator) passes through uppercased. With firstTime
// false every character is revealed uppercased, which is the "show the full
// phrase" form used at game close. Output length and separator positions
// always match the input.
func Mask(canonical string, firstTime bool) string {
	var b strings.Builder
	b.Grow(len(canonical))
	for _, r := range canonical {
		if firstTime && isASCIILetter(r) {
			b.WriteRune(Blank)
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// ToSlots splits canonical token text into per-word slot sequences for
// rendering. A slot is final only when finalFlag is set and the slot is not
// a blank placeholder: an unrevealed position cannot be final.
func ToSlots(token string, finalFlag bool) [][]SimpleLett {
	if token == "" {
		return nil
	}
	words := strings.Split(token, string(Separator))
	out := make([][]SimpleLett, len(words))
	for i, word := range words {
		slots := make([]SimpleLett, 0, len(word))
		for _, r := range word {
			v := unicode.ToUpper(r)
			slots = append(slots, SimpleLett{Value: v, Final: finalFlag && v != Blank})
		}
		out[i] = slots
	}
	return out
}

// Reveal uncovers every occurrence of letter in partial at the positions
// where tot holds it, returning the new partial and the number of positions
// that changed. tot and partial must share the structure guaranteed by Mask.
func Reveal(tot, partial string, letter rune) (string, int) {
	letter = unicode.ToUpper(letter)
	tr := []rune(tot)
	pr := []rune(partial)
	revealed := 0
	for i, r := range tr {
		if unicode.ToUpper(r) == letter && pr[i] == Blank {
			pr[i] = letter
			revealed++
		}
	}
	return string(pr), revealed
}

// IsComplete reports whether a partial phrase has no blank placeholders left
func IsComplete(partial string) bool {
	return !strings.ContainsRune(partial, Blank)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
