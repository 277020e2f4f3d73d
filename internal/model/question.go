package model

// Question is a single multiple-choice question as served by the
// question bank. CorrectIndex always indexes into Options.
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// AnswerLogEntry records a learner's first (and only) selection for a
// question position. Later selections for the same position are
// ignored.
type AnswerLogEntry struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
	CorrectIndex  int    `json:"correctIndex"`
}
