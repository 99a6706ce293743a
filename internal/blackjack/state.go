package blackjack

// State is the phase of a round
type State int

const (
	Idle State = iota
	PlayerTurn
	DealerTurn
	RoundOver
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case RoundOver:
		return "round_over"
	default:
		return "unknown"
	}
}

// Outcome is the result of a finished round
type Outcome int

const (
	OutcomeNone Outcome = iota
	PlayerWin
	DealerWin
	Tie
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case PlayerWin:
		return "player_win"
	case DealerWin:
		return "dealer_win"
	case Tie:
		return "tie"
	default:
		return "none"
	}
}

// Message returns the banner shown to the player when the round ends.
func (o Outcome) Message() string {
	switch o {
	case PlayerWin:
		return "You Win!"
	case DealerWin:
		return "You Lose!"
	case Tie:
		return "Tie!"
	default:
		return ""
	}
}

// DetermineOutcome compares final effective sums. A player bust is checked
// before a dealer bust.
func DetermineOutcome(player, dealer int) Outcome {
	switch {
	case player > BlackjackValue:
		return DealerWin
	case dealer > BlackjackValue:
		return PlayerWin
	case player == dealer:
		return Tie
	case player > dealer:
		return PlayerWin
	default:
		return DealerWin
	}
}

// Action is a player decision recorded in the round log
type Action string

const (
	ActionHit   Action = "hit"
	ActionStand Action = "stand"
)
