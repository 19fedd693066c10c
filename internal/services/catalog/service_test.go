package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorelli/guessphrase/internal/model"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	svc := Default()

	upper, err := svc.Lookup('E')
	require.NoError(t, err)
	lower, err := svc.Lookup('e')
	require.NoError(t, err)

	assert.Equal(t, upper, lower)
	assert.Equal(t, 'E', upper.Char)
}

func TestLookupUnknownLetter(t *testing.T) {
	svc := Default()

	for _, c := range []rune{'7', '!', '*', ' ', 'é'} {
		_, err := svc.Lookup(c)
		assert.ErrorIs(t, err, model.ErrUnknownLetter, "char %q", c)
	}
}

func TestCost(t *testing.T) {
	svc := New([]model.Letter{model.NewLetter(1, 'x', 4)})

	cost, err := svc.Cost('X')
	require.NoError(t, err)
	assert.Equal(t, int64(4), cost)

	_, err = svc.Cost('y')
	assert.ErrorIs(t, err, model.ErrUnknownLetter)
}

func TestAffordable(t *testing.T) {
	svc := New([]model.Letter{model.NewLetter(1, 'A', 5)})

	ok, err := svc.Affordable('A', 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Affordable('A', 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAffordableIsMonotonic(t *testing.T) {
	l := model.NewLetter(1, 'A', 5)

	affordableAt := -1
	for balance := int64(0); balance <= 20; balance++ {
		if model.Affordable(l, balance) {
			affordableAt = int(balance)
			break
		}
	}
	require.Equal(t, 5, affordableAt)
	for balance := int64(5); balance <= 20; balance++ {
		assert.True(t, model.Affordable(l, balance), "balance %d", balance)
	}
}

func TestDefaultLettersCoverAlphabet(t *testing.T) {
	letters := DefaultLetters()
	require.Len(t, letters, 26)

	seen := make(map[rune]bool)
	for _, l := range letters {
		assert.Positive(t, l.Cost, "letter %q must have a price", l.Char)
		seen[l.Char] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		assert.True(t, seen[c], "missing %q", c)
	}
}

func TestLettersOrderedByID(t *testing.T) {
	letters := Default().Letters()
	require.Len(t, letters, 26)
	for i := 1; i < len(letters); i++ {
		assert.Less(t, letters[i-1].ID, letters[i].ID)
	}
}
