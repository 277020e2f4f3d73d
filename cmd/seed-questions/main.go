package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pmmpclub/prep-backend/internal/config"
	"github.com/pmmpclub/prep-backend/internal/database"
	"github.com/pmmpclub/prep-backend/internal/logger"
)

type seedSubject struct {
	ID          string
	Name        string
	Description string
	Levels      []seedLevel
}

type seedLevel struct {
	Level           int
	Title           string
	Summary         string
	DurationMinutes int
	Focus           string
	Questions       int
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	subjects := []seedSubject{
		{
			ID: "quant", Name: "Quantitative Aptitude",
			Description: "Arithmetic, algebra and data sufficiency drills across six difficulty levels.",
			Levels: []seedLevel{
				{1, "Warm-up Arithmetic", "Percentages and ratios at a gentle pace.", 10, "arithmetic", 8},
				{2, "Number Properties", "Divisibility, remainders and primes.", 10, "number theory", 8},
				{3, "Word Problems", "Rates, mixtures and work problems.", 15, "applied arithmetic", 10},
				{4, "Algebra Sprint", "Linear and quadratic manipulation under time pressure.", 15, "algebra", 10},
				{5, "Data Sufficiency", "Two-statement sufficiency judgments.", 20, "data sufficiency", 12},
				{6, "Mixed Gauntlet", "Everything at exam difficulty.", 20, "mixed", 12},
			},
		},
		{
			ID: "verbal", Name: "Verbal Ability",
			Description: "Reading comprehension and vocabulary in context.",
			Levels: []seedLevel{
				{1, "Vocabulary Basics", "Common exam words in short sentences.", 10, "vocabulary", 8},
				{2, "Sentence Correction", "Spot the grammatically sound option.", 10, "grammar", 8},
				{3, "Short Passages", "Single-paragraph comprehension.", 15, "comprehension", 10},
				{4, "Critical Reading", "Inference and author intent.", 20, "comprehension", 10},
			},
		},
		{
			ID: "logic", Name: "Logical Reasoning",
			Description: "Sequences, syllogisms and puzzle sets.",
			Levels: []seedLevel{
				{1, "Pattern Spotting", "Number and letter series.", 10, "sequences", 8},
				{2, "Syllogisms", "All, some, none.", 10, "deduction", 8},
				{3, "Seating Puzzles", "Linear and circular arrangements.", 15, "arrangements", 10},
				{4, "Mixed Logic", "Everything together.", 20, "mixed", 10},
			},
		},
		{
			ID: "awareness", Name: "General Awareness",
			Description: "Current affairs and static general knowledge.",
			Levels: []seedLevel{
				{1, "Static GK", "Geography, polity and history staples.", 10, "static", 8},
				{2, "Current Affairs", "Recent events worth knowing.", 10, "current", 8},
			},
		},
	}

	fmt.Println("=== Seeding Question Bank ===")

	totalQuestions := 0
	for _, s := range subjects {
		_, err := pool.Exec(ctx,
			`INSERT INTO subjects (id, name, description) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET name = $2, description = $3, updated_at = NOW()`,
			s.ID, s.Name, s.Description)
		if err != nil {
			log.Fatal().Err(err).Str("subject", s.ID).Msg("Failed to upsert subject")
		}

		for _, l := range s.Levels {
			_, err := pool.Exec(ctx,
				`INSERT INTO levels (subject_id, level, title, summary, duration_minutes, focus)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (subject_id, level) DO UPDATE
				 SET title = $3, summary = $4, duration_minutes = $5, focus = $6`,
				s.ID, l.Level, l.Title, l.Summary, l.DurationMinutes, l.Focus)
			if err != nil {
				log.Fatal().Err(err).Str("subject", s.ID).Int("level", l.Level).Msg("Failed to upsert level")
			}

			for pos := 0; pos < l.Questions; pos++ {
				id := fmt.Sprintf("%s-l%d-q%02d", s.ID, l.Level, pos+1)
				prompt := fmt.Sprintf("[%s · level %d] Practice question %d: which option is correct?", s.Name, l.Level, pos+1)
				options := []string{"Option A", "Option B", "Option C", "Option D"}
				correct := (pos*3 + l.Level) % len(options)

				optionsJSON, _ := json.Marshal(options)
				_, err := pool.Exec(ctx,
					`INSERT INTO questions (id, subject_id, level, position, prompt, options, correct_index)
					 VALUES ($1, $2, $3, $4, $5, $6, $7)
					 ON CONFLICT (id) DO UPDATE
					 SET prompt = $5, options = $6, correct_index = $7, position = $4`,
					id, s.ID, l.Level, pos, prompt, optionsJSON, correct)
				if err != nil {
					log.Fatal().Err(err).Str("question", id).Msg("Failed to upsert question")
				}
				totalQuestions++
			}
		}
		fmt.Printf("Seeded %s (%d levels)\n", s.ID, len(s.Levels))
	}

	fmt.Printf("\nSeed completed! %d subjects, %d questions.\n", len(subjects), totalQuestions)
}
