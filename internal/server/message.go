package server

import (
	"github.com/lox/blackjack/internal/assets"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/cards"
)

// Client -> Server message types
const (
	TypeStart = "start"
	TypeHit   = "hit"
	TypeStand = "stand"
	TypeView  = "view"
)

// Server -> Client message types
const (
	TypeRoundView = "view"
	TypeError     = "error"
)

// Error codes
const (
	CodeInvalidState = "invalid_state"
	CodeBadRequest   = "bad_request"
	CodeInternal     = "internal"
)

// ClientMessage is a frame sent by a player
type ClientMessage struct {
	Type string `json:"type"`
	Seed *int64 `json:"seed,omitempty"` // Only for start
}

// ServerMessage is a frame sent to a player
type ServerMessage struct {
	Type    string       `json:"type"`
	View    *ViewPayload `json:"view,omitempty"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

// ViewPayload is the wire form of a RoundView. Cards are keys ("10-H") and
// images are asset file names, with BACK.png standing in for the concealed card.
type ViewPayload struct {
	Round              int      `json:"round"`
	RoundID            string   `json:"round_id"`
	State              string   `json:"state"`
	DealerCards        []string `json:"dealer_cards"`
	DealerImages       []string `json:"dealer_images"`
	HiddenCardRevealed bool     `json:"hidden_card_revealed"`
	HiddenCard         string   `json:"hidden_card,omitempty"`
	PlayerCards        []string `json:"player_cards"`
	PlayerImages       []string `json:"player_images"`
	PlayerSum          int      `json:"player_sum"`
	DealerSum          int      `json:"dealer_sum"`
	DealerRawSum       int      `json:"dealer_raw_sum,omitempty"`
	Outcome            string   `json:"outcome"`
	Message            string   `json:"message,omitempty"`
	Actions            []string `json:"actions"`
	CardsRemaining     int      `json:"cards_remaining"`
}

// NewViewPayload converts an engine snapshot to its wire form.
func NewViewPayload(v blackjack.RoundView) *ViewPayload {
	images := assets.ForView(v)

	p := &ViewPayload{
		Round:              v.Round,
		RoundID:            v.RoundID,
		State:              v.State.String(),
		DealerCards:        cardKeys(v.DealerVisibleCards),
		DealerImages:       images.Dealer,
		HiddenCardRevealed: v.HiddenCardRevealed,
		PlayerCards:        cardKeys(v.PlayerCards),
		PlayerImages:       images.Player,
		PlayerSum:          v.PlayerEffectiveSum,
		DealerSum:          v.DealerEffectiveSum,
		DealerRawSum:       v.DealerRawSum,
		Outcome:            v.Outcome.String(),
		Message:            v.Outcome.Message(),
		Actions:            make([]string, len(v.Actions)),
		CardsRemaining:     v.CardsRemaining,
	}
	if v.HiddenCardRevealed {
		p.HiddenCard = v.HiddenCard.Key()
	}
	for i, a := range v.Actions {
		p.Actions[i] = string(a)
	}
	return p
}

func newViewMessage(v blackjack.RoundView) *ServerMessage {
	return &ServerMessage{Type: TypeRoundView, View: NewViewPayload(v)}
}

func newErrorMessage(code, message string) *ServerMessage {
	return &ServerMessage{Type: TypeError, Code: code, Message: message}
}

func cardKeys(cs []cards.Card) []string {
	keys := make([]string, len(cs))
	for i, c := range cs {
		keys[i] = c.Key()
	}
	return keys
}
