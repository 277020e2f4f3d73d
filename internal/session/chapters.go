package session

import (
	"fmt"

	"github.com/pmmpclub/prep-backend/internal/model"
)

// BuildChapters derives the overview timeline from the first four
// levels: two chapters of two exercises each, where only the first
// exercise of every pair is startable and the second stays locked.
// The pairing rule tracks current product behavior and is kept here
// in one place so it can change without touching the controller.
func BuildChapters(levels []model.Level, overview *model.SubjectOverview, subject model.Subject) []model.Chapter {
	if len(levels) == 0 {
		return []model.Chapter{}
	}

	chapters := make([]model.Chapter, 0, 2)
	for i := 0; i < 2; i++ {
		var pair []model.Level
		if first := i * 2; first < len(levels) {
			pair = levels[first:min(first+2, len(levels))]
		}
		if len(pair) == 0 {
			continue
		}

		lead := pair[0]
		title := lead.Title
		if title == "" {
			title = fmt.Sprintf("Level %d", lead.Level)
		}
		description := lead.Summary
		if description == "" && overview != nil {
			description = overview.Description
		}
		if description == "" {
			description = subject.Focus
		}
		if description == "" {
			description = "Practice chapter with two short exercises."
		}

		exercises := make([]model.Exercise, 0, len(pair))
		for j, lvl := range pair {
			exTitle := lvl.Title
			if exTitle == "" {
				exTitle = fmt.Sprintf("Level %d", lvl.Level)
			}
			exercises = append(exercises, model.Exercise{
				Label:           fmt.Sprintf("Exercise %d", j+1),
				Level:           lvl.Level,
				Title:           exTitle,
				DurationMinutes: lvl.DurationMinutes,
				Startable:       j == 0,
			})
		}

		chapters = append(chapters, model.Chapter{
			Number:      i + 1,
			Title:       title,
			Description: description,
			Exercises:   exercises,
		})
	}

	return chapters
}
