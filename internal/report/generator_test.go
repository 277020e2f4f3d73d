package report

import (
	"testing"
	"time"

	"github.com/pmmpclub/prep-backend/internal/model"
)

var reportSubject = model.Subject{ID: "quant", Name: "Quantitative Aptitude"}

func reportQuestions() []model.Question {
	return []model.Question{
		{ID: "q1", Prompt: "1+1?", Options: []string{"1", "2"}, CorrectIndex: 1},
		{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1}, // no ID on purpose
		{ID: "q3", Prompt: "3+3?", Options: []string{"6", "7"}, CorrectIndex: 0},
	}
}

func TestGenerateFullSession(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	level := &model.ActiveLevel{Number: 2, Title: "Number Properties"}
	answers := map[int]model.AnswerLogEntry{
		0: {QuestionID: "q1", SelectedIndex: 1, CorrectIndex: 1},
		1: {SelectedIndex: 0, CorrectIndex: 1},
		2: {QuestionID: "q3", SelectedIndex: 0, CorrectIndex: 0},
	}

	rep := Generate(&reportSubject, level, reportQuestions(), answers, model.ReasonCompleted, now)
	if rep == nil {
		t.Fatal("nil report")
	}

	if rep.SubjectID != "quant" || rep.SubjectName != "Quantitative Aptitude" {
		t.Errorf("subject = %s/%s", rep.SubjectID, rep.SubjectName)
	}
	if rep.Level == nil || rep.Level.Number != 2 {
		t.Errorf("level = %+v", rep.Level)
	}
	if !rep.GeneratedAt.Equal(now) || rep.Reason != model.ReasonCompleted {
		t.Errorf("stamp = %v/%s", rep.GeneratedAt, rep.Reason)
	}
	if rep.TotalQuestions != 3 || rep.AnsweredCount != 3 || rep.CorrectCount != 2 || rep.IncorrectCount != 1 || rep.UnansweredCount != 0 {
		t.Errorf("counts = %+v", rep)
	}
	if rep.Accuracy != 67 {
		t.Errorf("accuracy = %d, want 67", rep.Accuracy)
	}

	if got := rep.Questions[1].ID; got != "question-1" {
		t.Errorf("missing-ID fallback = %q, want question-1", got)
	}
	if rep.Questions[0].Order != 1 || rep.Questions[2].Order != 3 {
		t.Errorf("orders = %d/%d", rep.Questions[0].Order, rep.Questions[2].Order)
	}
	if !rep.Questions[0].IsCorrect || rep.Questions[1].IsCorrect {
		t.Errorf("correctness flags wrong: %+v", rep.Questions)
	}
}

func TestGenerateSparseAnswers(t *testing.T) {
	answers := map[int]model.AnswerLogEntry{
		2: {QuestionID: "q3", SelectedIndex: 1, CorrectIndex: 0},
	}

	rep := Generate(&reportSubject, nil, reportQuestions(), answers, model.ReasonStopped, time.Now())
	if rep.AnsweredCount != 1 || rep.UnansweredCount != 2 {
		t.Errorf("counts = %+v", rep)
	}
	if rep.CorrectCount != 0 || rep.IncorrectCount != 1 || rep.Accuracy != 0 {
		t.Errorf("scoring = %d/%d/%d", rep.CorrectCount, rep.IncorrectCount, rep.Accuracy)
	}

	if rep.Questions[0].SelectedIndex != nil {
		t.Error("unanswered question carries a selection")
	}
	if sel := rep.Questions[2].SelectedIndex; sel == nil || *sel != 1 {
		t.Errorf("answered selection = %v", sel)
	}

	// Invariants hold on the sparse log too.
	if rep.AnsweredCount+rep.UnansweredCount != rep.TotalQuestions {
		t.Error("answered + unanswered != total")
	}
	if rep.CorrectCount+rep.IncorrectCount != rep.AnsweredCount {
		t.Error("correct + incorrect != answered")
	}
}

func TestGenerateNoAnswersZeroAccuracy(t *testing.T) {
	rep := Generate(&reportSubject, nil, reportQuestions(), map[int]model.AnswerLogEntry{}, model.ReasonStopped, time.Now())
	if rep.Accuracy != 0 {
		t.Errorf("accuracy with no answers = %d", rep.Accuracy)
	}
	if rep.AnsweredCount != 0 || rep.UnansweredCount != 3 {
		t.Errorf("counts = %+v", rep)
	}
}

func TestGenerateAccuracyRounding(t *testing.T) {
	questions := reportQuestions()
	// 1 of 3 correct rounds to 33, 2 of 3 to 67.
	oneOfThree := map[int]model.AnswerLogEntry{
		0: {SelectedIndex: 1, CorrectIndex: 1},
		1: {SelectedIndex: 0, CorrectIndex: 1},
		2: {SelectedIndex: 1, CorrectIndex: 0},
	}
	if rep := Generate(&reportSubject, nil, questions, oneOfThree, model.ReasonCompleted, time.Now()); rep.Accuracy != 33 {
		t.Errorf("1/3 accuracy = %d, want 33", rep.Accuracy)
	}
}

func TestGenerateNothingToReport(t *testing.T) {
	if rep := Generate(nil, nil, reportQuestions(), nil, model.ReasonStopped, time.Now()); rep != nil {
		t.Error("report without subject")
	}
	if rep := Generate(&reportSubject, nil, nil, nil, model.ReasonStopped, time.Now()); rep != nil {
		t.Error("report without questions")
	}
}
