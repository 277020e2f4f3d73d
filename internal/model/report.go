package model

import "time"

// Reason records how a session ended.
type Reason string

const (
	ReasonCompleted Reason = "completed"
	ReasonStopped   Reason = "stopped"
)

// QuestionDetail is the per-question snapshot embedded in a report.
// SelectedIndex is nil for unanswered positions.
type QuestionDetail struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correctIndex"`
	SelectedIndex *int     `json:"selectedIndex"`
	IsCorrect     bool     `json:"isCorrect"`
	Order         int      `json:"order"`
}

// SessionReport is the immutable aggregate produced when a session
// ends. Exactly one report exists per learner at a time; the next
// session overwrites it.
//
// Invariants:
//   - AnsweredCount + UnansweredCount == TotalQuestions
//   - CorrectCount + IncorrectCount == AnsweredCount
//   - Accuracy == round(CorrectCount/AnsweredCount*100) when answered,
//     else 0 (clients render a placeholder).
type SessionReport struct {
	SubjectID       string           `json:"subjectId"`
	SubjectName     string           `json:"subjectName"`
	Level           *ActiveLevel     `json:"level"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Reason          Reason           `json:"reason"`
	TotalQuestions  int              `json:"totalQuestions"`
	AnsweredCount   int              `json:"answeredCount"`
	CorrectCount    int              `json:"correctCount"`
	IncorrectCount  int              `json:"incorrectCount"`
	UnansweredCount int              `json:"unansweredCount"`
	Accuracy        int              `json:"accuracy"`
	Questions       []QuestionDetail `json:"questions"`
}
