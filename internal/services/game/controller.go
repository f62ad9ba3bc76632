package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/chala47/checker/internal/dependencies/clock"
	"github.com/chala47/checker/internal/model"
	"github.com/chala47/checker/internal/storage"
)

// Reason explains why a join or move was rejected
type Reason string

const (
	ReasonGameNotFound  Reason = "game_not_found"
	ReasonNotJoinable   Reason = "not_joinable"
	ReasonNotInProgress Reason = "not_in_progress"
	ReasonNotYourTurn   Reason = "not_your_turn"
)

// Result is the outcome of a join or move attempt. The realtime wire
// protocol stays silent on rejection; this makes the decision observable
// to callers and tests anyway.
type Result struct {
	Accepted bool
	Reason   Reason
	Game     *model.Game
}

func accepted(g *model.Game) *Result {
	return &Result{Accepted: true, Game: g}
}

func rejected(reason Reason) *Result {
	return &Result{Reason: reason}
}

// Controller manages the game lifecycle: seat assignment on join and the
// turn-toggling move protocol. All join/move handling for a given game id is
// serialized under a per-game mutex so two simultaneous moves cannot toggle
// the turn twice or double-assign the black seat.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[model.GameID]*sync.Mutex
}

// NewController creates a new game Controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger,
		locks:   make(map[model.GameID]*sync.Mutex),
	}
}

// Join seats the account as black on a waiting game and starts it.
// Absent or non-waiting games yield a rejected Result, never an error;
// errors are reserved for storage failures.
func (c *Controller) Join(ctx context.Context, gameID model.GameID, accountID model.AccountID) (*Result, error) {
	unlock := c.lockGame(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return rejected(ReasonGameNotFound), nil
		}
		return nil, err
	}

	if game.Status != model.StatusWaiting {
		return rejected(ReasonNotJoinable), nil
	}

	game.BlackPlayer = accountID
	game.Status = model.StatusInProgress

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("player joined game",
		slog.String("game_id", string(gameID)),
		slog.String("account_id", string(accountID)),
	)

	return accepted(game), nil
}

// Move applies a move: the board is replaced verbatim with whatever the
// client sent, the turn toggles, and a reported winner completes the game.
// Only the account seated on the side whose turn it is may move.
func (c *Controller) Move(ctx context.Context, gameID model.GameID, accountID model.AccountID, board model.Board, winner model.Color) (*Result, error) {
	unlock := c.lockGame(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return rejected(ReasonGameNotFound), nil
		}
		return nil, err
	}

	if game.Status != model.StatusInProgress {
		return rejected(ReasonNotInProgress), nil
	}

	if game.PlayerFor(game.CurrentPlayer) != accountID {
		return rejected(ReasonNotYourTurn), nil
	}

	game.Board = board
	game.CurrentPlayer = game.CurrentPlayer.Opponent()
	game.LastMoveAt = c.clock.Now()

	if winner != "" {
		game.Winner = winner
		game.Status = model.StatusCompleted
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	if game.Status == model.StatusCompleted {
		c.logger.Info("game completed",
			slog.String("game_id", string(gameID)),
			slog.String("winner", string(game.Winner)),
		)
	}

	return accepted(game), nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// lockGame acquires the per-game mutex and returns its unlock func.
// Lock entries are small and games are short-lived; entries are not reaped.
func (c *Controller) lockGame(id model.GameID) func() {
	c.mu.Lock()
	lock, ok := c.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[id] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
