package blackjack

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/cards"
)

// EngineOption configures an Engine during creation.
type EngineOption func(*engineConfig)

// DeckBuilder produces the deck for a new round from the round's random source.
type DeckBuilder func(rng cards.Source) *cards.Deck

type engineConfig struct {
	logger    *log.Logger
	buildDeck DeckBuilder
	newID     func() string
}

// WithLogger sets the logger used for round transitions. Engines log at
// debug level only.
func WithLogger(logger *log.Logger) EngineOption {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDeckBuilder replaces the default build-then-shuffle deck. Tests use it
// with cards.NewStackedDeck to fix the deal.
//
//	e := NewEngine(WithDeckBuilder(func(cards.Source) *cards.Deck {
//	    return cards.NewStackedDeck(cards.MustParseKeys("6-C", "5-D", "10-H", "7-S")...)
//	}))
func WithDeckBuilder(build DeckBuilder) EngineOption {
	return func(c *engineConfig) {
		if build != nil {
			c.buildDeck = build
		}
	}
}

// WithRoundIDs overrides how round identifiers are generated.
func WithRoundIDs(newID func() string) EngineOption {
	return func(c *engineConfig) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// ShuffledDeck is the default DeckBuilder: a fresh 52-card deck shuffled by rng.
func ShuffledDeck(rng cards.Source) *cards.Deck {
	d := cards.NewDeck()
	d.Shuffle(rng)
	return d
}

func newRoundID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
