package assets

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/cards"
)

func TestImageName(t *testing.T) {
	assert.Equal(t, "A-H.png", ImageName(cards.NewCard(cards.Ace, cards.Hearts)))
	assert.Equal(t, "10-S.png", ImageName(cards.NewCard(cards.Ten, cards.Spades)))
	assert.Equal(t, "BACK.png", BackImage)
}

func TestNames(t *testing.T) {
	names := Names()
	require.Len(t, names, 53)
	assert.Equal(t, "A-C.png", names[0])
	assert.Equal(t, "K-S.png", names[51])
	assert.Equal(t, BackImage, names[52])

	seen := make(map[string]bool)
	for _, n := range names {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}

func stacked() *blackjack.Engine {
	return blackjack.NewEngine(blackjack.WithDeckBuilder(func(cards.Source) *cards.Deck {
		return cards.NewStackedDeck(cards.MustParseKeys("6-C", "5-D", "10-H", "7-S")...)
	}))
}

func TestForView(t *testing.T) {
	e := stacked()

	t.Run("concealed", func(t *testing.T) {
		img := ForView(e.Start(0))
		assert.Equal(t, []string{"BACK.png", "5-D.png"}, img.Dealer)
		assert.Equal(t, []string{"10-H.png", "7-S.png"}, img.Player)
	})

	t.Run("revealed", func(t *testing.T) {
		v, err := e.Stand()
		require.NoError(t, err)

		img := ForView(v)
		assert.Equal(t, []string{"6-C.png", "5-D.png", "K-S.png"}, img.Dealer)
	})

	t.Run("idle", func(t *testing.T) {
		img := ForView(blackjack.NewEngine().View())
		assert.Empty(t, img.Dealer)
		assert.Empty(t, img.Player)
	})
}

func TestResolver(t *testing.T) {
	full := fstest.MapFS{}
	for _, n := range Names() {
		full[n] = &fstest.MapFile{Data: []byte("png")}
	}

	t.Run("complete set validates", func(t *testing.T) {
		r := NewResolver(full)
		require.NoError(t, r.Validate())

		f, err := r.Open(cards.NewCard(cards.Queen, cards.Diamonds))
		require.NoError(t, err)
		require.NoError(t, f.Close())

		f, err = r.OpenBack()
		require.NoError(t, err)
		require.NoError(t, f.Close())
	})

	t.Run("missing images are reported", func(t *testing.T) {
		partial := fstest.MapFS{}
		for k, v := range full {
			partial[k] = v
		}
		delete(partial, "A-H.png")
		delete(partial, BackImage)

		r := NewResolver(partial)
		missing, err := r.Missing()
		require.NoError(t, err)
		assert.Equal(t, []string{"A-H.png", BackImage}, missing)

		err = r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "A-H.png")
		assert.Contains(t, err.Error(), "BACK.png")
	})

	t.Run("directory is not an image", func(t *testing.T) {
		withDir := fstest.MapFS{}
		for k, v := range full {
			withDir[k] = v
		}
		delete(withDir, "2-C.png")
		withDir["2-C.png/readme"] = &fstest.MapFile{Data: []byte("x")}

		missing, err := NewResolver(withDir).Missing()
		require.NoError(t, err)
		assert.Equal(t, []string{"2-C.png"}, missing)
	})
}
