package phrase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"simple", "Hello World", "Hello*World"},
		{"surrounding whitespace", "  Hello World  ", "Hello*World"},
		{"run of spaces", "Hello    World", "Hello*World"},
		{"tabs and newlines", "Hello\t\n World", "Hello*World"},
		{"single word", "Hello", "Hello"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
		{"preserves case and punctuation", "It's  FINE", "It's*FINE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"Hello World", "  a  b  c ", "", "one", "1 2 3!"}
	for _, raw := range inputs {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once), "normalize(normalize(%q))", raw)
	}
}

func TestNormalizeNoDoubleOrEdgeSeparators(t *testing.T) {
	inputs := []string{" Hello  World ", "a\t\tb", " x ", "lots   of    gaps here"}
	for _, raw := range inputs {
		got := Normalize(raw)
		assert.NotContains(t, got, "**")
		assert.False(t, strings.HasPrefix(got, "*"), "leading separator in %q", got)
		assert.False(t, strings.HasSuffix(got, "*"), "trailing separator in %q", got)
	}
}

func TestMaskFirstTime(t *testing.T) {
	got := Mask("Hello*World", true)
	assert.Equal(t, "     *     ", got)
}

func TestMaskPreservesLengthAndSeparators(t *testing.T) {
	phrases := []string{"Hello*World", "a*b*c", "route*66!", "x"}
	for _, p := range phrases {
		masked := Mask(p, true)
		require.Len(t, masked, len(p))
		for i, r := range p {
			if r == Separator {
				assert.Equal(t, Separator, rune(masked[i]), "separator moved in %q", p)
			}
		}
	}
}

func TestMaskHidesOnlyLetters(t *testing.T) {
	got := Mask("abc*123*x-y!", true)
	assert.Equal(t, "   *123* - !", got)
}

func TestMaskRevealAll(t *testing.T) {
	got := Mask("Hello*World", false)
	assert.Equal(t, "HELLO*WORLD", got)
	assert.NotContains(t, got, string(Blank))
}

func TestMaskNonLetterPhraseFullyVisible(t *testing.T) {
	// With no letters to hide, the first mask already shows everything
	assert.Equal(t, "1234*!?", Mask("1234*!?", true))
}

func TestMaskEmpty(t *testing.T) {
	assert.Equal(t, "", Mask("", true))
	assert.Equal(t, "", Mask("", false))
}

func TestToSlots(t *testing.T) {
	slots := ToSlots("HE  O*WORLD", false)
	require.Len(t, slots, 2)
	require.Len(t, slots[0], 5)
	require.Len(t, slots[1], 5)

	assert.Equal(t, SimpleLett{Value: 'H'}, slots[0][0])
	assert.Equal(t, SimpleLett{Value: Blank}, slots[0][2])
	assert.Equal(t, SimpleLett{Value: 'W'}, slots[1][0])
}

func TestToSlotsFinalFlag(t *testing.T) {
	slots := ToSlots("HE  O", true)
	require.Len(t, slots, 1)

	assert.True(t, slots[0][0].Final)
	assert.True(t, slots[0][1].Final)
	// Blank slots are never final, even when requested
	assert.False(t, slots[0][2].Final)
	assert.False(t, slots[0][3].Final)
	assert.True(t, slots[0][4].Final)
}

func TestToSlotsUppercases(t *testing.T) {
	slots := ToSlots("hi", false)
	require.Len(t, slots, 1)
	assert.Equal(t, 'H', slots[0][0].Value)
	assert.Equal(t, 'I', slots[0][1].Value)
}

func TestToSlotsEmpty(t *testing.T) {
	assert.Nil(t, ToSlots("", false))
}

func TestToSlotsRoundTrips(t *testing.T) {
	// Flattening the slots and reinserting separators reconstructs the input
	inputs := []string{"HE  O*WORLD", "ABC", "1*2*3", " * "}
	for _, in := range inputs {
		slots := ToSlots(in, true)
		var words []string
		for _, word := range slots {
			var b strings.Builder
			for _, s := range word {
				b.WriteRune(s.Value)
			}
			words = append(words, b.String())
		}
		assert.Equal(t, in, strings.Join(words, string(Separator)))
	}
}

func TestReveal(t *testing.T) {
	tot := "Hello*World"
	partial := Mask(tot, true)

	partial, n := Reveal(tot, partial, 'l')
	assert.Equal(t, 3, n)
	assert.Equal(t, "  LL *   L ", partial)
}

func TestRevealLeavesOtherBlanksUntouched(t *testing.T) {
	tot := "banana"
	partial, n := Reveal(tot, Mask(tot, true), 'a')
	assert.Equal(t, 3, n)
	assert.Equal(t, " A A A", partial)
}

func TestRevealAlreadyRevealedIsNoop(t *testing.T) {
	tot := "Hello*World"
	partial, _ := Reveal(tot, Mask(tot, true), 'l')
	again, n := Reveal(tot, partial, 'L')
	assert.Equal(t, 0, n)
	assert.Equal(t, partial, again)
}

func TestRevealMissingLetter(t *testing.T) {
	tot := "Hello"
	partial, n := Reveal(tot, Mask(tot, true), 'z')
	assert.Equal(t, 0, n)
	assert.Equal(t, Mask(tot, true), partial)
}

func TestIsComplete(t *testing.T) {
	assert.False(t, IsComplete("  LL *   L "))
	assert.True(t, IsComplete("HELLO*WORLD"))
	assert.True(t, IsComplete(""))
	assert.True(t, IsComplete("123*!"))
}
