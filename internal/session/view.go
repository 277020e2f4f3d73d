package session

import (
	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/pmmpclub/prep-backend/internal/response"
)

// Mode is the controller's closed view-mode variant. Only two modes
// exist; every switch over Mode handles both.
type Mode string

const (
	ModeOverview Mode = "overview"
	ModeQuiz     Mode = "quiz"
)

// View is the snapshot of a learner's session returned by the
// controller for rendering. Exactly one of the mode-specific halves is
// populated, matching Mode.
type View struct {
	Mode    Mode          `json:"mode"`
	Subject model.Subject `json:"subject"`

	// Overview mode. QuizErrorCode lets clients branch on the kind of
	// load failure without matching on the human-readable message.
	PendingLevel  int              `json:"pendingLevel,omitempty"`
	QuizError     string           `json:"quizError,omitempty"`
	QuizErrorCode response.ErrCode `json:"quizErrorCode,omitempty"`

	// Quiz mode
	Level         *model.ActiveLevel `json:"level,omitempty"`
	Index         int                `json:"index,omitempty"`
	Total         int                `json:"total,omitempty"`
	Question      *model.Question    `json:"question,omitempty"`
	Answered      bool               `json:"answered,omitempty"`
	SelectedIndex *int               `json:"selectedIndex,omitempty"`
}

// StartInfo tells the client how long the countdown ceremony runs
// before the level actually starts.
type StartInfo struct {
	Level            int  `json:"level"`
	CountdownSeconds int  `json:"countdownSeconds"`
	AlreadyPending   bool `json:"alreadyPending"`
}

// AnswerResult reports the outcome of recording a selection.
type AnswerResult struct {
	Index         int  `json:"index"`
	SelectedIndex int  `json:"selectedIndex"`
	CorrectIndex  int  `json:"correctIndex"`
	Correct       bool `json:"correct"`
	AlreadyFinal  bool `json:"alreadyFinal"`
}

// AdvanceResult reports the outcome of a manual or automatic advance.
type AdvanceResult struct {
	Ended     bool                 `json:"ended"`
	Reason    model.Reason         `json:"reason,omitempty"`
	Report    *model.SessionReport `json:"report,omitempty"`
	NextIndex int                  `json:"nextIndex,omitempty"`
}
