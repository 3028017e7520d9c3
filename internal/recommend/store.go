package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// previousKeyPrefix is the persisted previous-result slot. One raw
// recommendation per session, overwritten on every successful submission,
// no expiry.
const previousKeyPrefix = "massage_recommendation_previous"

// ErrNoPrevious is returned when a session has no stored recommendation.
var ErrNoPrevious = errors.New("recommend: no previous recommendation")

// Store persists the most recent raw recommendation text per session.
type Store interface {
	SavePrevious(ctx context.Context, sessionID, rawText string) error
	LoadPrevious(ctx context.Context, sessionID string) (string, error)
}

type redisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisStore creates a redis-backed previous-result store.
func NewRedisStore(client *redis.Client, tracer trace.Tracer) Store {
	if client == nil {
		panic("recommend: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("spa.internal.recommend.store")
	}
	return &redisStore{redis: client, tracer: tracer}
}

func (s *redisStore) SavePrevious(ctx context.Context, sessionID, rawText string) error {
	ctx, span := s.tracer.Start(ctx, "recommend.save_previous")
	defer span.End()

	// TTL 0: the slot never expires, it is only overwritten.
	if err := s.redis.Set(ctx, previousKey(sessionID), rawText, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("recommend: failed to persist previous recommendation: %w", err)
	}
	return nil
}

func (s *redisStore) LoadPrevious(ctx context.Context, sessionID string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "recommend.load_previous")
	defer span.End()

	raw, err := s.redis.Get(ctx, previousKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoPrevious
		}
		span.RecordError(err)
		return "", fmt.Errorf("recommend: failed to load previous recommendation: %w", err)
	}
	return raw, nil
}

func previousKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", previousKeyPrefix, sessionID)
}

// MemoryStore keeps previous recommendations in process memory. Used when
// no redis address is configured and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	prev map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prev: make(map[string]string)}
}

func (s *MemoryStore) SavePrevious(_ context.Context, sessionID, rawText string) error {
	s.mu.Lock()
	s.prev[sessionID] = rawText
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadPrevious(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.prev[sessionID]
	if !ok {
		return "", ErrNoPrevious
	}
	return raw, nil
}
