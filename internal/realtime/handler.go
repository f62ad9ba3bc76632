package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/chala47/checker/internal/model"
	"github.com/chala47/checker/internal/services/auth"
	"github.com/chala47/checker/internal/services/game"
)

// Handler upgrades authenticated HTTP requests to websocket connections and
// bridges inbound events to the game controller. Invalid joins and moves are
// dropped with a log line only; the wire never carries a rejection.
type Handler struct {
	authService *auth.Service
	games       *game.Controller
	manager     *Manager
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewHandler creates a new realtime Handler
func NewHandler(authService *auth.Service, games *game.Controller, manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{
		authService: authService,
		games:       games,
		manager:     manager,
		logger:      logger.With(slog.String("component", "realtime")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The HTTP layer fronts a separate JS client; origin policy
			// is left to the deployment, as with the CORS setup it mirrors.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /ws. Unauthenticated upgrade attempts are rejected
// with 401 before the connection is upgraded.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	session, err := h.authService.ValidateSession(token)
	if err != nil {
		http.Error(w, "invalid or expired session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(conn, session.AccountID)
	h.logger.Info("websocket connected", slog.String("account_id", string(client.accountID)))

	go client.writePump()

	// Handshake acknowledgement
	if msg, err := marshalConnectResponse(); err == nil {
		client.queue(msg)
	}

	client.readPump(h.dispatch)

	h.manager.DropClient(client)
	h.logger.Info("websocket disconnected", slog.String("account_id", string(client.accountID)))
}

// dispatch routes one inbound event. Malformed or unknown events are dropped.
func (h *Handler) dispatch(client *Client, message []byte) {
	var event inboundEvent
	if err := json.Unmarshal(message, &event); err != nil {
		h.logger.Warn("dropping malformed event",
			slog.String("account_id", string(client.accountID)),
			slog.String("error", err.Error()))
		return
	}

	ctx := context.Background()
	gameID := model.GameID(event.GameID)

	switch event.Type {
	case EventJoinGame:
		h.handleJoin(ctx, client, gameID)
	case EventMakeMove:
		h.handleMove(ctx, client, gameID, event.Board, event.Winner)
	default:
		h.logger.Warn("dropping unknown event type",
			slog.String("type", event.Type),
			slog.String("account_id", string(client.accountID)))
	}
}

// handleJoin processes a join_game event. Joining an absent game is a no-op.
// Joining a waiting game seats the caller as black and broadcasts the update;
// joining in any other state only (re-)registers the connection in the room
// so it keeps receiving updates, without touching game state.
func (h *Handler) handleJoin(ctx context.Context, client *Client, gameID model.GameID) {
	result, err := h.games.Join(ctx, gameID, client.accountID)
	if err != nil {
		h.logger.Error("join failed", slog.String("game_id", string(gameID)), slog.String("error", err.Error()))
		return
	}

	if !result.Accepted && result.Reason == game.ReasonGameNotFound {
		h.logger.Info("dropping join for unknown game", slog.String("game_id", string(gameID)))
		return
	}

	room := h.manager.Join(gameID, client)

	if !result.Accepted {
		h.logger.Info("join without seat change",
			slog.String("game_id", string(gameID)),
			slog.String("account_id", string(client.accountID)),
			slog.String("reason", string(result.Reason)))
		return
	}

	h.broadcastGame(room, result.Game)
}

// handleMove processes a make_move event. Rejections (absent game, wrong
// status, wrong turn, wrong seat) are logged and dropped; the sender infers
// rejection from the absence of a broadcast.
func (h *Handler) handleMove(ctx context.Context, client *Client, gameID model.GameID, board model.Board, winner model.Color) {
	result, err := h.games.Move(ctx, gameID, client.accountID, board, winner)
	if err != nil {
		h.logger.Error("move failed", slog.String("game_id", string(gameID)), slog.String("error", err.Error()))
		return
	}

	if !result.Accepted {
		h.logger.Info("dropping rejected move",
			slog.String("game_id", string(gameID)),
			slog.String("account_id", string(client.accountID)),
			slog.String("reason", string(result.Reason)))
		return
	}

	h.broadcastGame(h.manager.GetOrCreateRoom(gameID), result.Game)
}

// broadcastGame fans the full game record out to the room
func (h *Handler) broadcastGame(room *Room, g *model.Game) {
	msg, err := marshalGameUpdated(g)
	if err != nil {
		h.logger.Error("failed to encode game update", slog.String("error", err.Error()))
		return
	}
	room.Broadcast(msg)
}

// extractToken pulls the session token from the cookie, the Authorization
// header, or the token query parameter (browser websocket clients cannot
// set headers).
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("session"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return r.URL.Query().Get("token")
}
