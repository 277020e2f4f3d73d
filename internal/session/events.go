package session

import (
	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/pmmpclub/prep-backend/internal/response"
)

// EventType enumerates the controller's outbound notifications.
type EventType string

const (
	EventQuizStarted      EventType = "quiz_started"
	EventAnswered         EventType = "answered"
	EventAdvanced         EventType = "advanced"
	EventSessionEnded     EventType = "session_ended"
	EventLevelStartFailed EventType = "level_start_failed"
)

// Event is pushed to the learner's stream whenever the controller
// transitions on its own (auto-advance, countdown completion) or in
// response to an action, so clients never have to poll.
type Event struct {
	Type     EventType            `json:"type"`
	Index    int                  `json:"index,omitempty"`
	Total    int                  `json:"total,omitempty"`
	Question *model.Question      `json:"question,omitempty"`
	Correct  *bool                `json:"correct,omitempty"`
	Reason   model.Reason         `json:"reason,omitempty"`
	Code     response.ErrCode     `json:"code,omitempty"`
	Message  string               `json:"message,omitempty"`
	Report   *model.SessionReport `json:"report,omitempty"`
}

// Notifier receives controller events for a learner. Implementations
// must not block: the controller calls Notify outside its lock but on
// hot paths.
type Notifier interface {
	Notify(learnerID int, ev Event)
}
