package realtime

import (
	"encoding/json"

	"github.com/chala47/checker/internal/model"
)

// Event type names on the wire
const (
	EventConnectResponse = "connect_response"
	EventJoinGame        = "join_game"
	EventMakeMove        = "make_move"
	EventGameUpdated     = "game_updated"
)

// inboundEvent is the envelope for client-to-server events. A single shape
// covers both join_game and make_move; unused fields stay zero.
type inboundEvent struct {
	Type     string      `json:"type"`
	GameID   string      `json:"game_id"`
	PlayerID string      `json:"player_id,omitempty"`
	Board    model.Board `json:"board,omitempty"`
	Winner   model.Color `json:"winner,omitempty"`
}

// connectResponse is sent once after a successful handshake
type connectResponse struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// gameUpdated carries the full game record to every room member
type gameUpdated struct {
	Type string      `json:"type"`
	Game *model.Game `json:"game"`
}

// marshalGameUpdated encodes a game_updated event for broadcast
func marshalGameUpdated(game *model.Game) ([]byte, error) {
	return json.Marshal(gameUpdated{Type: EventGameUpdated, Game: game})
}

// marshalConnectResponse encodes the handshake acknowledgement
func marshalConnectResponse() ([]byte, error) {
	return json.Marshal(connectResponse{Type: EventConnectResponse, Status: "connected"})
}
