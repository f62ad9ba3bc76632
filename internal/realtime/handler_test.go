package realtime_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chala47/checker/internal/dependencies/clock"
	"github.com/chala47/checker/internal/model"
	"github.com/chala47/checker/internal/realtime"
	"github.com/chala47/checker/internal/services/auth"
	"github.com/chala47/checker/internal/services/game"
	"github.com/chala47/checker/internal/storage/memory"
	"github.com/chala47/checker/internal/testutil"
)

type wsFixture struct {
	server  *httptest.Server
	storage *memory.Storage
	auth    *auth.Service
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()

	logger := testutil.NopLogger()
	store := memory.New()
	clk := clock.New()

	authService := auth.New(store, clk, auth.DefaultConfig(), logger)
	controller := game.NewController(store, clk, logger)
	manager := realtime.NewManager(logger)
	handler := realtime.NewHandler(authService, controller, manager, logger)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &wsFixture{
		server:  server,
		storage: store,
		auth:    authService,
	}
}

func (f *wsFixture) login(t *testing.T, email string) (model.AccountID, string) {
	t.Helper()
	account, err := f.auth.Register(context.Background(), email, "secret123")
	require.NoError(t, err)
	session, err := f.auth.Login(context.Background(), email, "secret123")
	require.NoError(t, err)
	return account.ID, session.Token
}

func (f *wsFixture) saveGame(t *testing.T, id string, status model.GameStatus, red, black model.AccountID) {
	t.Helper()
	now := time.Now()
	err := f.storage.SaveGame(context.Background(), &model.Game{
		ID:            model.GameID(id),
		GameVariant:   "classic",
		Board:         model.NewBoard(),
		CurrentPlayer: model.ColorRed,
		Status:        status,
		RedPlayer:     red,
		BlackPlayer:   black,
		CreatedAt:     now,
		LastMoveAt:    now,
	})
	require.NoError(t, err)
}

func (f *wsFixture) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := strings.Replace(f.server.URL, "http", "ws", 1) + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// Handshake acknowledgement arrives first
	event := readEvent(t, conn)
	require.Equal(t, "connect_response", event["type"])
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal(message, &event))
	return event
}

// expectSilence asserts that no message arrives within the window.
// Read errors are sticky on the underlying connection, so this must be the
// last read a test performs on it.
func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, message, err := conn.ReadMessage()
	if err == nil {
		t.Fatalf("expected no broadcast, got %s", message)
	}
}

func gameField(t *testing.T, event map[string]any) map[string]any {
	t.Helper()
	g, ok := event["game"].(map[string]any)
	require.True(t, ok, "event carries no game")
	return g
}

func TestUnauthenticatedUpgradeRejected(t *testing.T) {
	f := newWSFixture(t)

	url := strings.Replace(f.server.URL, "http", "ws", 1)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBadTokenRejected(t *testing.T) {
	f := newWSFixture(t)

	url := strings.Replace(f.server.URL, "http", "ws", 1) + "?token=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJoinWaitingGameBroadcasts(t *testing.T) {
	f := newWSFixture(t)
	redID, redToken := f.login(t, "red@example.com")
	blackID, blackToken := f.login(t, "black@example.com")
	f.saveGame(t, "game-1", model.StatusWaiting, redID, "")

	blackConn := f.dial(t, blackToken)
	require.NoError(t, blackConn.WriteJSON(map[string]string{
		"type": "join_game", "game_id": "game-1",
	}))

	event := readEvent(t, blackConn)
	assert.Equal(t, "game_updated", event["type"])
	g := gameField(t, event)
	assert.Equal(t, "in_progress", g["status"])
	assert.Equal(t, string(blackID), g["black_player"])

	// Red joins the now-running game: no seat change and no broadcast, but
	// the connection lands in the room and receives subsequent updates. The
	// first event red sees must be the move, not its own join.
	redConn := f.dial(t, redToken)
	require.NoError(t, redConn.WriteJSON(map[string]string{
		"type": "join_game", "game_id": "game-1",
	}))
	require.NoError(t, redConn.WriteJSON(map[string]any{
		"type":    "make_move",
		"game_id": "game-1",
		"board":   model.NewBoard(),
	}))

	for _, conn := range []*websocket.Conn{redConn, blackConn} {
		event := readEvent(t, conn)
		assert.Equal(t, "game_updated", event["type"])
		g := gameField(t, event)
		assert.Equal(t, "black", g["current_player"])
	}
}

func TestJoinUnknownGameIsSilent(t *testing.T) {
	f := newWSFixture(t)
	_, token := f.login(t, "red@example.com")

	conn := f.dial(t, token)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type": "join_game", "game_id": "missing",
	}))
	expectSilence(t, conn)
}

func TestMoveBroadcastsToRoom(t *testing.T) {
	f := newWSFixture(t)
	redID, redToken := f.login(t, "red@example.com")
	blackID, blackToken := f.login(t, "black@example.com")
	f.saveGame(t, "game-1", model.StatusInProgress, redID, blackID)

	redConn := f.dial(t, redToken)
	blackConn := f.dial(t, blackToken)

	for _, conn := range []*websocket.Conn{redConn, blackConn} {
		require.NoError(t, conn.WriteJSON(map[string]string{
			"type": "join_game", "game_id": "game-1",
		}))
	}
	// Give both joins time to land in the room before the move fans out
	time.Sleep(50 * time.Millisecond)

	board := model.NewBoard()
	board[4][1] = board[5][0]
	board[5][0] = nil
	require.NoError(t, redConn.WriteJSON(map[string]any{
		"type":    "make_move",
		"game_id": "game-1",
		"board":   board,
	}))

	for _, conn := range []*websocket.Conn{redConn, blackConn} {
		event := readEvent(t, conn)
		assert.Equal(t, "game_updated", event["type"])
		g := gameField(t, event)
		assert.Equal(t, "black", g["current_player"])
		assert.Equal(t, "in_progress", g["status"])
	}
}

func TestOffTurnMoveIsSilent(t *testing.T) {
	f := newWSFixture(t)
	redID, _ := f.login(t, "red@example.com")
	blackID, blackToken := f.login(t, "black@example.com")
	f.saveGame(t, "game-1", model.StatusInProgress, redID, blackID)

	conn := f.dial(t, blackToken)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type": "join_game", "game_id": "game-1",
	}))
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "make_move",
		"game_id": "game-1",
		"board":   model.NewBoard(),
	}))
	expectSilence(t, conn)

	// The stored game is untouched
	stored, err := f.storage.GetGame(context.Background(), "game-1")
	require.NoError(t, err)
	assert.Equal(t, model.ColorRed, stored.CurrentPlayer)
}

func TestWinningMoveCompletesGame(t *testing.T) {
	f := newWSFixture(t)
	redID, redToken := f.login(t, "red@example.com")
	blackID, _ := f.login(t, "black@example.com")
	f.saveGame(t, "game-1", model.StatusInProgress, redID, blackID)

	conn := f.dial(t, redToken)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type": "join_game", "game_id": "game-1",
	}))
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "make_move",
		"game_id": "game-1",
		"board":   model.NewBoard(),
		"winner":  "red",
	}))

	event := readEvent(t, conn)
	g := gameField(t, event)
	assert.Equal(t, "completed", g["status"])
	assert.Equal(t, "red", g["winner"])
}

func TestMalformedEventIsDropped(t *testing.T) {
	f := newWSFixture(t)
	redID, _ := f.login(t, "red@example.com")
	_, token := f.login(t, "joiner@example.com")
	f.saveGame(t, "game-1", model.StatusWaiting, redID, "")

	conn := f.dial(t, token)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection survives and later events still work
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type": "join_game", "game_id": "game-1",
	}))
	event := readEvent(t, conn)
	assert.Equal(t, "game_updated", event["type"])
}
