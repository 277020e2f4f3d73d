package session

import (
	"testing"

	"github.com/pmmpclub/prep-backend/internal/model"
)

func fourLevels() []model.Level {
	return []model.Level{
		{Level: 1, Title: "Warm-up", Summary: "Gentle start.", DurationMinutes: 10},
		{Level: 2, Title: "Number Properties", DurationMinutes: 10},
		{Level: 3, Title: "Word Problems", Summary: "Rates and work.", DurationMinutes: 15},
		{Level: 4, Title: "Algebra Sprint", DurationMinutes: 15},
	}
}

func TestBuildChaptersPairing(t *testing.T) {
	subject := model.Subject{ID: "quant", Name: "Quant", Focus: "arithmetic"}
	chapters := BuildChapters(fourLevels(), nil, subject)

	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}

	for i, ch := range chapters {
		if ch.Number != i+1 {
			t.Errorf("chapter %d numbered %d", i, ch.Number)
		}
		if len(ch.Exercises) != 2 {
			t.Fatalf("chapter %d has %d exercises", ch.Number, len(ch.Exercises))
		}
		if !ch.Exercises[0].Startable {
			t.Errorf("chapter %d first exercise locked", ch.Number)
		}
		if ch.Exercises[1].Startable {
			t.Errorf("chapter %d second exercise startable", ch.Number)
		}
	}

	if got := chapters[0].Exercises[0].Level; got != 1 {
		t.Errorf("chapter 1 exercise 1 level = %d", got)
	}
	if got := chapters[1].Exercises[1].Level; got != 4 {
		t.Errorf("chapter 2 exercise 2 level = %d", got)
	}
	if chapters[0].Title != "Warm-up" {
		t.Errorf("chapter 1 title = %q", chapters[0].Title)
	}
}

func TestBuildChaptersOddLevelCount(t *testing.T) {
	subject := model.Subject{ID: "quant", Name: "Quant"}
	chapters := BuildChapters(fourLevels()[:3], nil, subject)

	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if len(chapters[1].Exercises) != 1 {
		t.Errorf("trailing chapter has %d exercises, want 1", len(chapters[1].Exercises))
	}
}

func TestBuildChaptersSingleLevel(t *testing.T) {
	subject := model.Subject{ID: "quant", Name: "Quant"}
	chapters := BuildChapters(fourLevels()[:1], nil, subject)

	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
}

func TestBuildChaptersEmpty(t *testing.T) {
	chapters := BuildChapters(nil, nil, model.Subject{ID: "quant"})
	if len(chapters) != 0 {
		t.Fatalf("got %d chapters for no levels", len(chapters))
	}
}

func TestBuildChaptersDescriptionFallbacks(t *testing.T) {
	subject := model.Subject{ID: "quant", Name: "Quant", Focus: "arithmetic drills"}
	bare := []model.Level{{Level: 1}, {Level: 2}}

	// Lead summary missing, overview present.
	overview := &model.SubjectOverview{Description: "All of quant."}
	chapters := BuildChapters(bare, overview, subject)
	if chapters[0].Description != "All of quant." {
		t.Errorf("description = %q, want overview fallback", chapters[0].Description)
	}
	if chapters[0].Title != "Level 1" {
		t.Errorf("title fallback = %q", chapters[0].Title)
	}

	// No overview: fall back to the subject focus.
	chapters = BuildChapters(bare, nil, subject)
	if chapters[0].Description != "arithmetic drills" {
		t.Errorf("description = %q, want subject focus", chapters[0].Description)
	}

	// Nothing at all: canned text.
	chapters = BuildChapters(bare, nil, model.Subject{ID: "quant"})
	if chapters[0].Description != "Practice chapter with two short exercises." {
		t.Errorf("description = %q, want canned fallback", chapters[0].Description)
	}
}
