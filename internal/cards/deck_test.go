package cards

import (
	"errors"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5bd1e995))
}

func TestNewDeckBuildOrder(t *testing.T) {
	d := NewDeck()
	require.Equal(t, DeckSize, d.Len())

	got := d.Cards()
	assert.Equal(t, NewCard(Ace, Clubs), got[0])
	assert.Equal(t, NewCard(King, Clubs), got[12])
	assert.Equal(t, NewCard(Ace, Diamonds), got[13])
	assert.Equal(t, NewCard(King, Spades), got[51])
}

func TestShuffleIsPermutation(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		d := NewDeck()
		d.Shuffle(seeded(seed))

		require.Equal(t, DeckSize, d.Len())
		seen := make(map[Card]bool, DeckSize)
		for _, c := range d.Cards() {
			require.True(t, c.IsValid())
			require.False(t, seen[c], "seed %d duplicated %s", seed, c.Key())
			seen[c] = true
		}
		assert.Len(t, seen, DeckSize)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a, b := NewDeck(), NewDeck()
	a.Shuffle(seeded(99))
	b.Shuffle(seeded(99))
	assert.Equal(t, a.Cards(), b.Cards())

	c := NewDeck()
	c.Shuffle(seeded(100))
	assert.NotEqual(t, a.Cards(), c.Cards())
}

// fixedSource always returns the same index, which makes the full-range
// swap sequence easy to follow by hand.
type fixedSource int

func (f fixedSource) IntN(int) int { return int(f) }

func TestShuffleFullRangeSwap(t *testing.T) {
	d := NewDeck()
	d.Shuffle(fixedSource(0))

	// Swapping every i with 0 rotates the deck left by one: the card that
	// started at 51 ends at 0 and every other card moves up one slot.
	got := d.Cards()
	all := All()
	assert.Equal(t, all[51], got[0])
	for i := 1; i < DeckSize; i++ {
		assert.Equal(t, all[i-1], got[i])
	}
}

func TestDrawTop(t *testing.T) {
	d := NewDeck()

	c, err := d.DrawTop()
	require.NoError(t, err)
	assert.Equal(t, NewCard(King, Spades), c)
	assert.Equal(t, DeckSize-1, d.Len())

	for !d.IsEmpty() {
		_, err := d.DrawTop()
		require.NoError(t, err)
	}

	_, err = d.DrawTop()
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, 0, d.Len())
}

func TestNewStackedDeck(t *testing.T) {
	draws := MustParseKeys("6-C", "5-D", "10-H", "7-S")
	d := NewStackedDeck(draws...)
	require.Equal(t, DeckSize, d.Len())

	for _, want := range draws {
		got, err := d.DrawTop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	next, err := d.DrawTop()
	require.NoError(t, err)
	assert.Equal(t, NewCard(King, Spades), next)
}

func TestNewStackedDeckIgnoresDuplicates(t *testing.T) {
	d := NewStackedDeck(NewCard(Ace, Spades), NewCard(Ace, Spades), Card{})
	assert.Equal(t, DeckSize, d.Len())

	top, err := d.DrawTop()
	require.NoError(t, err)
	assert.Equal(t, NewCard(Ace, Spades), top)
}
