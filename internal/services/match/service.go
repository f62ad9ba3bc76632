package match

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chala47/checker/internal/dependencies/clock"
	"github.com/chala47/checker/internal/dependencies/random"
	"github.com/chala47/checker/internal/model"
	"github.com/chala47/checker/internal/storage"
)

// Service creates games and pairs opponents. The creator always takes the
// red seat; opponent selection is a uniform pick over all other accounts,
// with no notion of availability.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new matchmaking service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// ListOpenGames returns games still waiting for an opponent, optionally
// filtered by variant tag.
func (s *Service) ListOpenGames(ctx context.Context, variant string) ([]*model.Game, error) {
	return s.storage.ListGamesByStatus(ctx, model.StatusWaiting, variant)
}

// CreateGame allocates a new game owned by the creator as red and tries to
// auto-assign a random other account as black. With no other accounts the
// game stays in waiting.
func (s *Service) CreateGame(ctx context.Context, variant string, creator model.AccountID) (*model.Game, error) {
	game := s.newGame(variant, creator)

	opponent, err := s.pickOpponent(ctx, creator)
	if err != nil {
		return nil, err
	}
	if opponent != "" {
		game.BlackPlayer = opponent
		game.Status = model.StatusInProgress
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("variant", variant),
		slog.String("status", string(game.Status)),
	)

	return game, nil
}

// Invite creates a game against a specific account looked up by email.
// The game starts in_progress immediately; the invitee learns of it only by
// listing or opening it.
func (s *Service) Invite(ctx context.Context, variant string, creator model.AccountID, inviteeEmail string) (*model.Game, error) {
	invitee, err := s.storage.GetAccountByEmail(ctx, inviteeEmail)
	if err != nil {
		return nil, err
	}
	if invitee.ID == creator {
		return nil, model.ErrSelfInvite
	}

	game := s.newGame(variant, creator)
	game.BlackPlayer = invitee.ID
	game.Status = model.StatusInProgress

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created by invite",
		slog.String("game_id", string(game.ID)),
		slog.String("variant", variant),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// newGame builds a fresh game with the standard opening board, red to move
func (s *Service) newGame(variant string, creator model.AccountID) *model.Game {
	now := s.clock.Now()
	return &model.Game{
		ID:            model.GameID(uuid.NewString()),
		GameVariant:   variant,
		Board:         model.NewBoard(),
		CurrentPlayer: model.ColorRed,
		Status:        model.StatusWaiting,
		RedPlayer:     creator,
		CreatedAt:     now,
		LastMoveAt:    now,
	}
}

// pickOpponent returns a uniformly random account other than the creator,
// or empty if none exist
func (s *Service) pickOpponent(ctx context.Context, creator model.AccountID) (model.AccountID, error) {
	accounts, err := s.storage.ListAccounts(ctx)
	if err != nil {
		return "", err
	}

	candidates := make([]model.AccountID, 0, len(accounts))
	for _, a := range accounts {
		if a.ID != creator {
			candidates = append(candidates, a.ID)
		}
	}

	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[s.random.Intn(len(candidates))], nil
}
