package feedback

import (
	"context"
	"database/sql"
)

// Repo persists feedback entries in the feedback_scores table.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Insert stores an entry and returns its generated id.
func (r *Repo) Insert(ctx context.Context, e Entry) (int64, error) {
	const q = `
INSERT INTO feedback_scores (question, user_answer, correct_answer, evaluation, category, is_correct)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at;
`
	err := r.db.QueryRowContext(ctx, q,
		e.Question, e.UserAnswer, e.CorrectAnswer, e.Evaluation, e.Category, e.IsCorrect).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

// ListRecent returns the newest entries, newest first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	const q = `
SELECT id, question, user_answer, correct_answer, evaluation, category, is_correct, created_at
FROM feedback_scores
ORDER BY created_at DESC
LIMIT $1;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Question, &e.UserAnswer, &e.CorrectAnswer,
			&e.Evaluation, &e.Category, &e.IsCorrect, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every stored entry, oldest first. Used by the archive job.
func (r *Repo) ListAll(ctx context.Context) ([]Entry, error) {
	const q = `
SELECT id, question, user_answer, correct_answer, evaluation, category, is_correct, created_at
FROM feedback_scores
ORDER BY created_at ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Question, &e.UserAnswer, &e.CorrectAnswer,
			&e.Evaluation, &e.Category, &e.IsCorrect, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats aggregates accuracy per category directly in SQL.
func (r *Repo) Stats(ctx context.Context) (Analytics, error) {
	const q = `
SELECT category, COUNT(*), COUNT(*) FILTER (WHERE is_correct)
FROM feedback_scores
GROUP BY category;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return Analytics{}, err
	}
	defer rows.Close()

	a := Analytics{Categories: make(map[string]CategoryStats)}
	for rows.Next() {
		var category string
		var total, correct int
		if err := rows.Scan(&category, &total, &correct); err != nil {
			return Analytics{}, err
		}

		accuracy := 0.0
		if total > 0 {
			accuracy = float64(correct) / float64(total) * 100
		}
		a.Categories[category] = CategoryStats{Total: total, Correct: correct, Accuracy: accuracy}
		a.TotalFeedback += total
		a.TotalQuestions += total
		a.CorrectAnswers += correct
	}
	if err := rows.Err(); err != nil {
		return Analytics{}, err
	}

	if a.TotalQuestions > 0 {
		a.OverallAccuracy = float64(a.CorrectAnswers) / float64(a.TotalQuestions) * 100
	}
	return a, nil
}
