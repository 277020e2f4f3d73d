package report

import (
	"fmt"
	"math"
	"time"

	"github.com/pmmpclub/prep-backend/internal/model"
)

// Generate synthesizes the immutable SessionReport for a finished
// session. The answer log is sparse: answers maps question position to
// the first recorded selection for that position; missing positions
// are unanswered.
//
// Returns nil when there is no subject or no loaded questions —
// callers must treat that as "nothing to report" and fall back to a
// neutral destination instead of erroring.
func Generate(
	subject *model.Subject,
	level *model.ActiveLevel,
	questions []model.Question,
	answers map[int]model.AnswerLogEntry,
	reason model.Reason,
	now time.Time,
) *model.SessionReport {
	if subject == nil || len(questions) == 0 {
		return nil
	}

	details := make([]model.QuestionDetail, len(questions))
	answered := 0
	correct := 0

	for i, q := range questions {
		id := q.ID
		if id == "" {
			id = fmt.Sprintf("question-%d", i)
		}

		detail := model.QuestionDetail{
			ID:           id,
			Prompt:       q.Prompt,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Order:        i + 1,
		}

		if entry, ok := answers[i]; ok {
			sel := entry.SelectedIndex
			detail.SelectedIndex = &sel
			detail.IsCorrect = sel == q.CorrectIndex
			answered++
			if detail.IsCorrect {
				correct++
			}
		}

		details[i] = detail
	}

	accuracy := 0
	if answered > 0 {
		accuracy = int(math.Round(float64(correct) / float64(answered) * 100))
	}

	return &model.SessionReport{
		SubjectID:       subject.ID,
		SubjectName:     subject.Name,
		Level:           level,
		GeneratedAt:     now,
		Reason:          reason,
		TotalQuestions:  len(questions),
		AnsweredCount:   answered,
		CorrectCount:    correct,
		IncorrectCount:  answered - correct,
		UnansweredCount: len(questions) - answered,
		Accuracy:        accuracy,
		Questions:       details,
	}
}
