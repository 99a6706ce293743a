package blackjack

import "github.com/lox/blackjack/internal/cards"

const (
	// BlackjackValue is the highest effective sum that does not bust.
	BlackjackValue = 21
	// DealerStandValue is the raw sum at or above which the dealer stops drawing.
	DealerStandValue = 17

	aceReduction = 10
)

// ReduceAce lowers sum by 10 for each ace, one at a time, while the sum is
// over 21 and aces remain. The result can still exceed 21.
func ReduceAce(sum, aceCount int) int {
	for sum > BlackjackValue && aceCount > 0 {
		sum -= aceReduction
		aceCount--
	}
	return sum
}

// Hand is the ordered set of cards held by one party. The raw sum counts
// every ace as 11 and is only ever changed by Add.
type Hand struct {
	cards    []cards.Card
	rawSum   int
	aceCount int
}

// Add appends a card to the hand
func (h *Hand) Add(c cards.Card) {
	h.cards = append(h.cards, c)
	h.rawSum += c.Value()
	if c.IsAce() {
		h.aceCount++
	}
}

// EffectiveSum returns the raw sum after ace reduction.
func (h *Hand) EffectiveSum() int {
	return ReduceAce(h.rawSum, h.aceCount)
}

// RawSum returns the sum with every ace counted as 11.
func (h *Hand) RawSum() int {
	return h.rawSum
}

// AceCount returns the number of aces in the hand
func (h *Hand) AceCount() int {
	return h.aceCount
}

// Cards returns a copy of the cards in the order they were dealt.
func (h *Hand) Cards() []cards.Card {
	out := make([]cards.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int {
	return len(h.cards)
}

// IsBust reports whether the effective sum is over 21.
func (h *Hand) IsBust() bool {
	return h.EffectiveSum() > BlackjackValue
}

func (h *Hand) reset() {
	h.cards = h.cards[:0]
	h.rawSum = 0
	h.aceCount = 0
}
