package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chala47/checker/internal/api/middleware"
	"github.com/chala47/checker/internal/api/request"
	"github.com/chala47/checker/internal/api/response"
	"github.com/chala47/checker/internal/model"
	"github.com/chala47/checker/internal/services/match"
)

// GameHandler handles matchmaking endpoints
type GameHandler struct {
	matchService *match.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(matchService *match.Service) *GameHandler {
	return &GameHandler{
		matchService: matchService,
	}
}

// List handles GET /api/games?game_variant=
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	variant := r.URL.Query().Get("game_variant")

	games, err := h.matchService.ListOpenGames(r.Context(), variant)
	if err != nil {
		WriteError(w, err)
		return
	}

	if games == nil {
		games = []*model.Game{}
	}
	response.JSON(w, http.StatusOK, games)
}

// Create handles POST /api/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GameVariant == "" {
		WriteError(w, NewInvalidRequestError("game_variant is required"))
		return
	}

	game, err := h.matchService.CreateGame(r.Context(), req.GameVariant, account.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, game)
}

// Invite handles POST /api/invite
func (h *GameHandler) Invite(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var req request.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GameVariant == "" {
		WriteError(w, NewInvalidRequestError("game_variant is required"))
		return
	}
	if req.InviteEmail == "" {
		WriteError(w, NewInvalidRequestError("invite_email is required"))
		return
	}

	game, err := h.matchService.Invite(r.Context(), req.GameVariant, account.ID, req.InviteEmail)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, game)
}

// Get handles GET /api/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	game, err := h.matchService.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameDetail{
		Game:     game,
		PlayerID: string(account.ID),
	})
}
