package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mapr-agent/recommender/internal/model"
	"github.com/mapr-agent/recommender/pkg/logger"
	"github.com/mapr-agent/recommender/pkg/retry"
)

// Store keeps completed session results for follow-up lookups. The
// pipeline never reads stored sessions back into scoring.
type Store interface {
	Put(ctx context.Context, result *model.SessionResult) error
	Get(ctx context.Context, sessionID string) (*model.SessionResult, bool, error)
}

// MemoryStore is the default process-lifetime store.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Put(_ context.Context, result *model.SessionResult) error {
	s.cache.Set(result.SessionID, result, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*model.SessionResult, bool, error) {
	if x, found := s.cache.Get(sessionID); found {
		return x.(*model.SessionResult), true, nil
	}
	return nil, false, nil
}

// RedisStore persists sessions as JSON for deployments where follow-ups
// may land on another instance. Writes are retried; the pipeline itself
// has no other remote dependency.
type RedisStore struct {
	client   *redis.Client
	ttl      time.Duration
	retryCfg retry.Config
}

func NewRedisStore(host string, port int, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis session store initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &RedisStore{
		client:   client,
		ttl:      ttl,
		retryCfg: retry.DefaultConfig(),
	}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Put(ctx context.Context, result *model.SessionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = retry.Do(ctx, s.retryCfg, func() error {
		return s.client.Set(ctx, sessionKey(result.SessionID), data, s.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	logger.Debug("Session stored", zap.String("session_id", result.SessionID))
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*model.SessionResult, bool, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get session: %w", err)
	}

	var result model.SessionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &result, true, nil
}

func sessionKey(id string) string {
	return "session:" + id
}
