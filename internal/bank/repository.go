package bank

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pmmpclub/prep-backend/internal/model"
)

// ErrSubjectUnknown is returned when a subject has no rows in the bank.
var ErrSubjectUnknown = errors.New("subject not found in question bank")

// Repository handles question-bank data access.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Overview returns the subject description plus its total question
// count, or ErrSubjectUnknown when the subject does not exist.
func (r *Repository) Overview(ctx context.Context, subjectID string) (*model.SubjectOverview, error) {
	var o model.SubjectOverview
	err := r.pool.QueryRow(ctx,
		`SELECT s.description,
		        (SELECT COUNT(*) FROM questions q WHERE q.subject_id = s.id)
		 FROM subjects s WHERE s.id = $1`, subjectID,
	).Scan(&o.Description, &o.TotalQuestions)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubjectUnknown
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Levels retrieves a subject's levels in ascending level order, each
// carrying its question count.
func (r *Repository) Levels(ctx context.Context, subjectID string) ([]model.Level, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.level, l.title, l.summary, l.duration_minutes, l.focus,
		        (SELECT COUNT(*) FROM questions q
		          WHERE q.subject_id = l.subject_id AND q.level = l.level)
		 FROM levels l WHERE l.subject_id = $1
		 ORDER BY l.level`, subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []model.Level
	for rows.Next() {
		var l model.Level
		if err := rows.Scan(&l.Level, &l.Title, &l.Summary, &l.DurationMinutes, &l.Focus, &l.QuestionCount); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// LevelMeta retrieves the descriptor for one level. A missing row is
// not an error: questions can exist for a level nobody described, and
// the session falls back to catalog metadata.
func (r *Repository) LevelMeta(ctx context.Context, subjectID string, level int) (*model.ActiveLevel, error) {
	var m model.ActiveLevel
	err := r.pool.QueryRow(ctx,
		`SELECT level, title, summary, duration_minutes, focus
		 FROM levels WHERE subject_id = $1 AND level = $2`, subjectID, level,
	).Scan(&m.Number, &m.Title, &m.Summary, &m.DurationMinutes, &m.Focus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Questions retrieves the ordered question sequence for one level.
func (r *Repository) Questions(ctx context.Context, subjectID string, level int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, prompt, options, correct_index
		 FROM questions WHERE subject_id = $1 AND level = $2
		 ORDER BY position`, subjectID, level,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Options, &q.CorrectIndex); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// SubjectExists reports whether the bank knows the subject at all.
func (r *Repository) SubjectExists(ctx context.Context, subjectID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subjects WHERE id = $1)`, subjectID,
	).Scan(&exists)
	return exists, err
}
