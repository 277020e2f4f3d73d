package session

import (
	"context"
	"strconv"

	"github.com/pmmpclub/prep-backend/internal/config"
	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// AnswerMirror receives a best-effort copy of every recorded answer so
// an operator can inspect a live session. Failures are logged, never
// surfaced: the in-memory answer log stays authoritative.
type AnswerMirror interface {
	Save(ctx context.Context, learnerID, position int, entry model.AnswerLogEntry) error
	Clear(ctx context.Context, learnerID int) error
}

// RedisAnswerMirror stores the sparse answer log in a Redis hash keyed
// by question position.
type RedisAnswerMirror struct {
	rdb *redis.Client
}

func NewRedisAnswerMirror(rdb *redis.Client) *RedisAnswerMirror {
	return &RedisAnswerMirror{rdb: rdb}
}

func (m *RedisAnswerMirror) Save(ctx context.Context, learnerID, position int, entry model.AnswerLogEntry) error {
	key := config.CacheKey.AnswerAutosaveKey(learnerID)
	field := strconv.Itoa(position)
	value := entry.QuestionID + ":" + strconv.Itoa(entry.SelectedIndex) + ":" + strconv.Itoa(entry.CorrectIndex)
	return m.rdb.HSet(ctx, key, field, value).Err()
}

func (m *RedisAnswerMirror) Clear(ctx context.Context, learnerID int) error {
	return m.rdb.Del(ctx, config.CacheKey.AnswerAutosaveKey(learnerID)).Err()
}
