package blackjack

import "github.com/lox/blackjack/internal/cards"

// RoundView is a read-only snapshot of a round. Slices are copies; holding a
// view never observes later engine changes.
type RoundView struct {
	Round   int
	RoundID string
	State   State

	// DealerVisibleCards excludes the concealed card until the round is
	// over, after which the concealed card is included first.
	DealerVisibleCards []cards.Card
	HiddenCardRevealed bool
	// HiddenCard is the zero Card until revealed.
	HiddenCard cards.Card

	PlayerCards        []cards.Card
	PlayerEffectiveSum int

	// DealerEffectiveSum covers the visible cards only while the hidden card
	// is concealed.
	DealerEffectiveSum int
	// DealerRawSum is zero until the hidden card is revealed.
	DealerRawSum int

	Outcome        Outcome
	Actions        []Action
	CardsRemaining int
}

// View returns a snapshot of the current round. It never changes engine state.
func (e *Engine) View() RoundView {
	v := RoundView{
		Round:              e.round,
		RoundID:            e.roundID,
		State:              e.state,
		PlayerCards:        e.player.Cards(),
		PlayerEffectiveSum: e.player.EffectiveSum(),
		Actions:            append([]Action(nil), e.actions...),
		CardsRemaining:     e.CardsRemaining(),
	}

	if e.state == Idle {
		return v
	}

	if e.state == RoundOver {
		v.HiddenCardRevealed = true
		v.HiddenCard = e.hidden
		v.DealerVisibleCards = append([]cards.Card{e.hidden}, e.dealer.cards...)
		v.DealerEffectiveSum = e.dealerEffectiveSum()
		v.DealerRawSum = e.dealerRawSum()
		v.Outcome = DetermineOutcome(v.PlayerEffectiveSum, v.DealerEffectiveSum)
		return v
	}

	v.DealerVisibleCards = e.dealer.Cards()
	v.DealerEffectiveSum = e.dealer.EffectiveSum()
	return v
}

// IsOver reports whether the round has finished.
func (v RoundView) IsOver() bool {
	return v.State == RoundOver
}

// CanAct reports whether Hit and Stand are currently allowed.
func (v RoundView) CanAct() bool {
	return v.State == PlayerTurn
}
