package cards

import "errors"

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// ErrDeckExhausted is returned when drawing from an empty deck.
var ErrDeckExhausted = errors.New("cards: deck exhausted")

// Source supplies uniform random integers in [0, n). *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Deck is an ordered pile of cards. The top of the deck is the last element.
type Deck struct {
	cards []Card
}

// All returns the 52 canonical cards in build order: suit-major, rank-minor.
func All() []Card {
	all := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			all = append(all, NewCard(rank, suit))
		}
	}
	return all
}

// NewDeck creates an unshuffled standard 52-card deck
func NewDeck() *Deck {
	return &Deck{cards: All()}
}

// NewStackedDeck creates a deck whose first draws are exactly the given cards,
// in order. The remaining canonical cards sit underneath in build order, so the
// draw after the stacked ones is the highest remaining card in build order
// (King of Spades when it was not stacked). Duplicates and invalid cards are
// ignored.
func NewStackedDeck(draws ...Card) *Deck {
	stacked := make(map[Card]bool, len(draws))
	top := make([]Card, 0, len(draws))
	for _, c := range draws {
		if !c.IsValid() || stacked[c] {
			continue
		}
		stacked[c] = true
		top = append(top, c)
	}

	d := &Deck{cards: make([]Card, 0, DeckSize)}
	for _, c := range All() {
		if !stacked[c] {
			d.cards = append(d.cards, c)
		}
	}
	for i := len(top) - 1; i >= 0; i-- {
		d.cards = append(d.cards, top[i])
	}
	return d
}

// Shuffle permutes the deck in place. Each position i, first to last, is
// swapped with a position drawn uniformly from the whole deck.
func (d *Deck) Shuffle(rng Source) {
	n := len(d.cards)
	for i := 0; i < n; i++ {
		j := rng.IntN(n)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// DrawTop removes and returns the top card of the deck
func (d *Deck) DrawTop() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}

	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards = d.cards[:last]
	return card, nil
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the remaining cards, bottom first.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
