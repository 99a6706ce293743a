// Package blackjack implements the round engine for single-player BlackJack.
//
// The main type is Engine, which owns the deck, the player's hand, the
// dealer's visible hand and the dealer's concealed card for one round at a
// time.
//
// # Basic Usage
//
//	e := blackjack.NewEngine()
//	v := e.Start(42)
//	for v.CanAct() && v.PlayerEffectiveSum < 17 {
//	    v, _ = e.Hit()
//	}
//	if v.CanAct() {
//	    v, _ = e.Stand()
//	}
//	fmt.Println(v.Outcome.Message())
//
// # Round Flow
//
// Start deals the concealed dealer card, one visible dealer card and two
// player cards, then waits in PlayerTurn. Hit draws for the player and ends
// the round on a bust. Stand plays the dealer out synchronously: the dealer
// draws while its raw sum (every ace counted as 11) is below 17. Ace
// reduction is applied only when sums are evaluated, so a dealer holding a
// soft 17 or better stands.
//
// Hit and Stand outside PlayerTurn return ErrInvalidState and leave the
// engine untouched. Bust, win and tie are outcomes on the RoundView, not
// errors.
//
// # Deterministic Testing
//
// Start takes a seed and always produces the same deal for it. For complete
// control over the deal, stack the deck:
//
//	e := blackjack.NewEngine(blackjack.WithDeckBuilder(func(cards.Source) *cards.Deck {
//	    return cards.NewStackedDeck(cards.MustParseKeys("6-C", "5-D", "10-H", "7-S")...)
//	}))
//
// The engine is not safe for concurrent use. Front ends call it from a single
// goroutine.
package blackjack
