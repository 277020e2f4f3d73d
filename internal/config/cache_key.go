package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LearnerSessionKey returns the cache key for a learner's active login slot.
func (r *CacheKeyStruct) LearnerSessionKey(learnerID int) string {
	return fmt.Sprintf("login:%d", learnerID)
}

// LearnerByEmailKey returns the cache key a learner record is stored under.
func (r *CacheKeyStruct) LearnerByEmailKey(email string) string {
	return fmt.Sprintf("learner:email:%s", email)
}

// LearnerIDCounterKey is the cache key for the learner id sequence.
func (r *CacheKeyStruct) LearnerIDCounterKey() string {
	return "learner:next_id"
}

// LatestReportKey returns the single report slot for a learner. The slot
// holds at most one serialized SessionReport and is overwritten by each
// new session.
func (r *CacheKeyStruct) LatestReportKey(learnerID int) string {
	return fmt.Sprintf("learner:%d:report:latest", learnerID)
}

// AnswerAutosaveKey returns the cache key for a learner's in-flight
// answer log mirror.
func (r *CacheKeyStruct) AnswerAutosaveKey(learnerID int) string {
	return fmt.Sprintf("learner:%d:session:answers", learnerID)
}

var CacheKey = NewCacheKeyStruct()
