package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pmmpclub/prep-backend/internal/config"
	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// ErrNoReport is returned by Get when the learner's slot is empty.
var ErrNoReport = errors.New("no report stored")

// Store is the single-slot transient report store: at most one
// SessionReport per learner, overwritten by each new session and
// cleared when the learner retakes a level or returns to the
// dashboard. The boundary is an interface so tests can swap the Redis
// implementation for an in-memory one.
type Store interface {
	Get(ctx context.Context, learnerID int) (*model.SessionReport, error)
	Set(ctx context.Context, learnerID int, rep *model.SessionReport) error
	Clear(ctx context.Context, learnerID int) error
}

// ─── Redis implementation ───────────────────────────────────────────

// RedisStore keeps the slot in Redis so a gateway restart does not
// lose the most recent report within its TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a RedisStore. ttl <= 0 means no expiry.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, learnerID int) (*model.SessionReport, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.LatestReportKey(learnerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoReport
		}
		return nil, fmt.Errorf("get report slot: %w", err)
	}

	var rep model.SessionReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("decode stored report: %w", err)
	}
	return &rep, nil
}

func (s *RedisStore) Set(ctx context.Context, learnerID int, rep *model.SessionReport) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.LatestReportKey(learnerID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set report slot: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, learnerID int) error {
	if err := s.rdb.Del(ctx, config.CacheKey.LatestReportKey(learnerID)).Err(); err != nil {
		return fmt.Errorf("clear report slot: %w", err)
	}
	return nil
}

// ─── In-memory implementation ───────────────────────────────────────

// MemoryStore is the in-memory Store used by tests and by the gateway
// when it runs without Redis.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[int]*model.SessionReport
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[int]*model.SessionReport)}
}

func (s *MemoryStore) Get(_ context.Context, learnerID int) (*model.SessionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.slots[learnerID]
	if !ok {
		return nil, ErrNoReport
	}
	return rep, nil
}

func (s *MemoryStore) Set(_ context.Context, learnerID int, rep *model.SessionReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[learnerID] = rep
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, learnerID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, learnerID)
	return nil
}
