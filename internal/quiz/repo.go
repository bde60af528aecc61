package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoBankQuestion = errors.New("quiz: no bank question for category")

// Repo is the Postgres question bank. Generated questions are stored here so
// the service can fall back to a previously vetted question when generation
// fails.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Save(ctx context.Context, q *Question) error {
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	const query = `
insert into questions (id, category, prompt, options, correct_answer, explanation)
values ($1::uuid, $2, $3, $4::jsonb, $5, $6)
on conflict (id) do nothing;
`
	_, err = r.db.Exec(ctx, query, q.ID, q.Category, q.Prompt, opts, q.CorrectAnswer, q.Explanation)
	if err != nil {
		return fmt.Errorf("save question: %w", err)
	}
	return nil
}

// RandomByCategory picks a random bank question for the category.
func (r *Repo) RandomByCategory(ctx context.Context, category string) (*Question, error) {
	const query = `
select id, category, prompt, options, correct_answer, explanation, created_at
from questions
where category = $1
order by random()
limit 1;
`
	var q Question
	var opts []byte
	err := r.db.QueryRow(ctx, query, category).
		Scan(&q.ID, &q.Category, &q.Prompt, &opts, &q.CorrectAnswer, &q.Explanation, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoBankQuestion
	}
	if err != nil {
		return nil, fmt.Errorf("random question: %w", err)
	}

	if err := json.Unmarshal(opts, &q.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	q.Source = "bank"
	return &q, nil
}

// DeleteOlderThan prunes bank questions created before cutoff and returns the
// number of rows removed. Old drafts go stale against the evolving prompts.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `delete from questions where created_at < $1;`

	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune questions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) CountByCategory(ctx context.Context, category string) (int, error) {
	const query = `select count(*) from questions where category = $1;`

	var n int
	if err := r.db.QueryRow(ctx, query, category).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
