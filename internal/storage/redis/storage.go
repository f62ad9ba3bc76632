package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chala47/checker/internal/model"
	"github.com/chala47/checker/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

// storedAccount is the persisted form of an Account. The model's JSON view
// omits the password hash; storage has to keep it.
type storedAccount struct {
	ID           model.AccountID `json:"id"`
	Email        string          `json:"email"`
	CreatedAt    time.Time       `json:"created_at"`
	PasswordHash string          `json:"password_hash"`
}

func toStored(a *model.Account) storedAccount {
	return storedAccount{
		ID:           a.ID,
		Email:        a.Email,
		CreatedAt:    a.CreatedAt,
		PasswordHash: a.PasswordHash,
	}
}

func (sa storedAccount) toModel() *model.Account {
	return &model.Account{
		ID:           sa.ID,
		Email:        sa.Email,
		CreatedAt:    sa.CreatedAt,
		PasswordHash: sa.PasswordHash,
	}
}

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(toStored(account))
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	pipe.Set(ctx, emailIndexKey(account.Email), string(account.ID), 0)
	pipe.SAdd(ctx, accountsIndexKey(), string(account.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account storedAccount
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return account.toModel(), nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	idStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.AccountID(idStr))
}

func (s *Storage) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	ids, err := s.client.SMembers(ctx, accountsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Account{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = accountKey(model.AccountID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	accounts := make([]*model.Account, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var account storedAccount
		if err := json.Unmarshal([]byte(val.(string)), &account); err != nil {
			continue // Skip invalid data
		}
		accounts = append(accounts, account.toModel())
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if game.Status == model.StatusCompleted {
		ttl = s.cfg.GameTTL
	}

	// Keep the per-status index in sync: a game lives in exactly one status set
	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, ttl)
	for _, status := range []model.GameStatus{model.StatusWaiting, model.StatusInProgress, model.StatusCompleted} {
		if status == game.Status {
			pipe.SAdd(ctx, gamesByStatusKey(status), string(game.ID))
		} else {
			pipe.SRem(ctx, gamesByStatusKey(status), string(game.ID))
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListGamesByStatus(ctx context.Context, status model.GameStatus, variant string) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, gamesByStatusKey(status)).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Game may have expired
		}
		var game model.Game
		if err := json.Unmarshal([]byte(val.(string)), &game); err != nil {
			continue // Skip invalid data
		}
		if variant != "" && game.GameVariant != variant {
			continue
		}
		games = append(games, &game)
	}

	sort.Slice(games, func(i, j int) bool { return games[i].CreatedAt.Before(games[j].CreatedAt) })
	return games, nil
}
