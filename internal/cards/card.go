package cards

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists every suit in build order.
var Suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

// String returns the display glyph of a suit
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Symbol returns the single letter used in card keys ("C", "D", "H", "S")
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank in build order.
var Ranks = [...]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// rankValues holds the blackjack point value of each rank. Index 0 is unused.
var rankValues = [...]int{
	Ace:   11,
	Two:   2,
	Three: 3,
	Four:  4,
	Five:  5,
	Six:   6,
	Seven: 7,
	Eight: 8,
	Nine:  9,
	Ten:   10,
	Jack:  10,
	Queen: 10,
	King:  10,
}

// String returns the symbol of a rank as used in card keys
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r >= Two && r <= Ten {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// Value returns the point value of the rank with aces counted high.
func (r Rank) Value() int {
	if r < Ace || r > King {
		return 0
	}
	return rankValues[r]
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Value returns the blackjack value of the card: aces 11, faces 10, pips at face value.
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// Key returns the canonical identity of the card, e.g. "A-H" or "10-S".
// Image assets are looked up by this string.
func (c Card) Key() string {
	return c.Rank.String() + "-" + c.Suit.Symbol()
}

// String returns the display form of a card (e.g., "A♥")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsValid reports whether the card is one of the 52 canonical cards.
// The zero Card is not valid.
func (c Card) IsValid() bool {
	return c.Rank >= Ace && c.Rank <= King && c.Suit >= Clubs && c.Suit <= Spades
}
