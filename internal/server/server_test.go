package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIdleTimeout = time.Minute

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func stackedDeck(keys ...string) blackjack.EngineOption {
	draws := cards.MustParseKeys(keys...)
	return blackjack.WithDeckBuilder(func(cards.Source) *cards.Deck {
		return cards.NewStackedDeck(draws...)
	})
}

func startTestServer(t *testing.T, maxSessions int, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()

	cfg := Config{IdleTimeout: testIdleTimeout, MaxSessions: maxSessions}
	srv := NewServer(cfg, quietLogger(), opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Stop)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, frame any) ServerMessage {
	t.Helper()

	require.NoError(t, conn.WriteJSON(frame))
	return readMessage(t, conn)
}

func TestHealth(t *testing.T) {
	_, ts := startTestServer(t, 4)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestManifest(t *testing.T) {
	_, ts := startTestServer(t, 4)

	resp, err := http.Get(ts.URL + "/assets/manifest")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	require.Len(t, names, 53)
	assert.Equal(t, "A-C.png", names[0])
	assert.Equal(t, "BACK.png", names[52])
}

func TestSessionRoundTrip(t *testing.T) {
	_, ts := startTestServer(t, 4, WithEngineOptions(stackedDeck("6-C", "5-D", "10-H", "7-S")))
	conn := dial(t, ts)

	msg := send(t, conn, ClientMessage{Type: TypeStart})
	require.Equal(t, TypeRoundView, msg.Type)
	require.NotNil(t, msg.View)
	assert.Equal(t, "player_turn", msg.View.State)
	assert.Equal(t, 1, msg.View.Round)
	assert.Equal(t, []string{"5-D"}, msg.View.DealerCards)
	assert.Equal(t, []string{"BACK.png", "5-D.png"}, msg.View.DealerImages)
	assert.Equal(t, []string{"10-H", "7-S"}, msg.View.PlayerCards)
	assert.Equal(t, []string{"10-H.png", "7-S.png"}, msg.View.PlayerImages)
	assert.Equal(t, 17, msg.View.PlayerSum)
	assert.Equal(t, 5, msg.View.DealerSum)
	assert.Zero(t, msg.View.DealerRawSum)
	assert.Empty(t, msg.View.HiddenCard)
	assert.Equal(t, "none", msg.View.Outcome)

	msg = send(t, conn, ClientMessage{Type: TypeStand})
	require.Equal(t, TypeRoundView, msg.Type)
	assert.Equal(t, "round_over", msg.View.State)
	assert.True(t, msg.View.HiddenCardRevealed)
	assert.Equal(t, "6-C", msg.View.HiddenCard)
	assert.Equal(t, []string{"6-C", "5-D", "K-S"}, msg.View.DealerCards)
	assert.Equal(t, []string{"6-C.png", "5-D.png", "K-S.png"}, msg.View.DealerImages)
	assert.Equal(t, 21, msg.View.DealerRawSum)
	assert.Equal(t, "dealer_win", msg.View.Outcome)
	assert.Equal(t, "You Lose!", msg.View.Message)
	assert.Equal(t, []string{"stand"}, msg.View.Actions)

	t.Run("hit after round over is an invalid_state error", func(t *testing.T) {
		msg := send(t, conn, ClientMessage{Type: TypeHit})
		assert.Equal(t, TypeError, msg.Type)
		assert.Equal(t, CodeInvalidState, msg.Code)
		assert.Contains(t, msg.Message, "invalid state")
	})

	t.Run("session stays open after an error", func(t *testing.T) {
		msg := send(t, conn, ClientMessage{Type: TypeView})
		require.Equal(t, TypeRoundView, msg.Type)
		assert.Equal(t, "round_over", msg.View.State)
	})

	t.Run("start deals the next round", func(t *testing.T) {
		msg := send(t, conn, ClientMessage{Type: TypeStart})
		require.Equal(t, TypeRoundView, msg.Type)
		assert.Equal(t, 2, msg.View.Round)
		assert.Equal(t, "player_turn", msg.View.State)
	})
}

func TestSessionBadRequests(t *testing.T) {
	_, ts := startTestServer(t, 4)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	msg := readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, CodeBadRequest, msg.Code)

	msg = send(t, conn, map[string]string{"type": "double_down"})
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, CodeBadRequest, msg.Code)
	assert.Contains(t, msg.Message, "double_down")

	msg = send(t, conn, ClientMessage{Type: TypeHit})
	assert.Equal(t, CodeInvalidState, msg.Code, "hit before start")

	msg = send(t, conn, ClientMessage{Type: TypeStart})
	assert.Equal(t, TypeRoundView, msg.Type)
}

func TestSeededStart(t *testing.T) {
	_, ts := startTestServer(t, 4)
	seed := int64(42)
	want := NewViewPayload(blackjack.NewEngine().Start(seed))

	for i := 0; i < 2; i++ {
		conn := dial(t, ts)
		msg := send(t, conn, ClientMessage{Type: TypeStart, Seed: &seed})
		require.Equal(t, TypeRoundView, msg.Type)
		assert.Equal(t, want.PlayerCards, msg.View.PlayerCards)
		assert.Equal(t, want.DealerCards, msg.View.DealerCards)
	}
}

func TestServerSeedStream(t *testing.T) {
	_, tsA := startTestServer(t, 4, WithSeed(7))
	_, tsB := startTestServer(t, 4, WithSeed(7))

	a := send(t, dial(t, tsA), ClientMessage{Type: TypeStart})
	b := send(t, dial(t, tsB), ClientMessage{Type: TypeStart})
	assert.Equal(t, a.View.PlayerCards, b.View.PlayerCards)
	assert.Equal(t, a.View.DealerCards, b.View.DealerCards)
}

func TestIdleSessionIsClosed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	srv, ts := startTestServer(t, 4, WithClock(mockClock))
	conn := dial(t, ts)

	msg := send(t, conn, ClientMessage{Type: TypeStart})
	require.Equal(t, TypeRoundView, msg.Type)
	assert.Equal(t, 1, srv.SessionCount())

	mockClock.Advance(testIdleTimeout).MustWait(ctx)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.Eventually(t, func() bool {
		return srv.SessionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMaxSessions(t *testing.T) {
	_, ts := startTestServer(t, 1)
	first := dial(t, ts)
	msg := send(t, first, ClientMessage{Type: TypeView})
	assert.Equal(t, "idle", msg.View.State)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
