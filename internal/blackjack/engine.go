package blackjack

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/randutil"
)

// ErrInvalidState is returned when an action is attempted outside the
// player's turn. The engine is left unchanged.
var ErrInvalidState = errors.New("blackjack: invalid state")

// Engine runs one round at a time: it owns the deck, both hands and the
// dealer's concealed card. It is not safe for concurrent use; callers
// serialise every call onto one goroutine.
type Engine struct {
	cfg    engineConfig
	logger *log.Logger

	deck    *cards.Deck
	hidden  cards.Card
	dealer  Hand // visible dealer cards only
	player  Hand
	state   State
	actions []Action

	round   int
	roundID string
}

// NewEngine creates an idle engine. Call Start to deal the first round.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := engineConfig{
		logger:    log.New(io.Discard),
		buildDeck: ShuffledDeck,
		newID:     newRoundID,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		cfg:    cfg,
		logger: cfg.logger.WithPrefix("engine"),
		state:  Idle,
	}
}

// Start deals a new round from a deck shuffled with the given seed.
func (e *Engine) Start(seed int64) RoundView {
	return e.StartWithRand(randutil.New(seed))
}

// StartWithRand deals a new round from a deck shuffled with rng. The dealer
// gets a concealed card then a visible card, the player gets two cards, and
// the round moves to the player's turn. Nothing is checked at deal time.
func (e *Engine) StartWithRand(rng cards.Source) RoundView {
	e.deck = e.cfg.buildDeck(rng)
	e.dealer.reset()
	e.player.reset()
	e.actions = e.actions[:0]
	e.round++
	e.roundID = e.cfg.newID()

	e.hidden = e.draw()
	e.dealer.Add(e.draw())
	for i := 0; i < 2; i++ {
		e.player.Add(e.draw())
	}
	e.state = PlayerTurn

	e.logger.Debug("Dealt round",
		"round", e.round,
		"id", e.roundID,
		"dealerUp", e.dealer.cards[0].Key(),
		"player", keys(e.player.cards),
		"playerSum", e.player.EffectiveSum())

	return e.View()
}

// Hit draws one card for the player. A bust ends the round.
func (e *Engine) Hit() (RoundView, error) {
	if e.state != PlayerTurn {
		return RoundView{}, e.invalid(ActionHit)
	}

	c := e.draw()
	e.player.Add(c)
	e.actions = append(e.actions, ActionHit)

	sum := e.player.EffectiveSum()
	e.logger.Debug("Player hit", "round", e.round, "card", c.Key(), "playerSum", sum)

	if sum > BlackjackValue {
		e.finish()
	}
	return e.View(), nil
}

// Stand ends the player's turn and plays the dealer out: the dealer draws
// while the raw sum, aces counted as 11, is below 17.
func (e *Engine) Stand() (RoundView, error) {
	if e.state != PlayerTurn {
		return RoundView{}, e.invalid(ActionStand)
	}

	e.actions = append(e.actions, ActionStand)
	e.state = DealerTurn

	for e.dealerRawSum() < DealerStandValue {
		c := e.draw()
		e.dealer.Add(c)
		e.logger.Debug("Dealer drew", "round", e.round, "card", c.Key(), "dealerRaw", e.dealerRawSum())
	}

	e.finish()
	return e.View(), nil
}

// State returns the current phase of the round
func (e *Engine) State() State {
	return e.state
}

// Round returns the number of rounds dealt so far
func (e *Engine) Round() int {
	return e.round
}

// CardsRemaining returns the number of cards left in the current deck
func (e *Engine) CardsRemaining() int {
	if e.deck == nil {
		return 0
	}
	return e.deck.Len()
}

func (e *Engine) finish() {
	e.state = RoundOver

	player := e.player.EffectiveSum()
	dealer := e.dealerEffectiveSum()
	e.logger.Debug("Round over",
		"round", e.round,
		"hidden", e.hidden.Key(),
		"playerSum", player,
		"dealerSum", dealer,
		"outcome", DetermineOutcome(player, dealer))
}

// draw takes the top card. Running out of cards within a round cannot happen
// with a full deck, so an empty deck is a programming error.
func (e *Engine) draw() cards.Card {
	c, err := e.deck.DrawTop()
	if err != nil {
		panic(fmt.Errorf("blackjack: round %d: %w", e.round, err))
	}
	return c
}

func (e *Engine) dealerRawSum() int {
	return e.dealer.RawSum() + e.hidden.Value()
}

func (e *Engine) dealerAceCount() int {
	n := e.dealer.AceCount()
	if e.hidden.IsAce() {
		n++
	}
	return n
}

func (e *Engine) dealerEffectiveSum() int {
	return ReduceAce(e.dealerRawSum(), e.dealerAceCount())
}

func (e *Engine) invalid(action Action) error {
	return fmt.Errorf("%w: cannot %s during %s", ErrInvalidState, action, e.state)
}

func keys(cs []cards.Card) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Key()
	}
	return out
}
