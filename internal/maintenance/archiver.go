package maintenance

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/brainbee-training/brainbee-backend/internal/feedback"
	"github.com/brainbee-training/brainbee-backend/internal/quiz"
	"github.com/brainbee-training/brainbee-backend/internal/storage"
)

// bankRetention is how long generated questions stay in the bank before the
// nightly job prunes them.
const bankRetention = 30 * 24 * time.Hour

// FeedbackSource lists the rows to archive.
type FeedbackSource interface {
	ListAll(ctx context.Context) ([]feedback.Entry, error)
}

// QuestionPruner removes stale question-bank drafts.
type QuestionPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionSource enumerates live sessions and loads their state.
type SessionSource interface {
	ListIDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, sessionID string, dest any) error
}

// ObjectStore is the storage slice the archiver writes to.
type ObjectStore interface {
	PutJSON(ctx context.Context, key string, v any) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// Archiver sweeps feedback rows and session snapshots into object storage so
// analytics survive the Redis TTL and database resets.
type Archiver struct {
	feedback FeedbackSource
	sessions SessionSource
	bank     QuestionPruner
	store    ObjectStore
}

// NewArchiver builds the nightly job. bank may be nil when there is no
// question bank to prune (the one-shot migration).
func NewArchiver(fb FeedbackSource, sess SessionSource, bank QuestionPruner, store ObjectStore) *Archiver {
	return &Archiver{feedback: fb, sessions: sess, bank: bank, store: store}
}

// Run archives everything currently stored. Per-object failures are logged
// and skipped; the job reports only wholesale failures.
func (a *Archiver) Run(ctx context.Context) error {
	fbCount, err := a.archiveFeedback(ctx)
	if err != nil {
		return fmt.Errorf("archive feedback: %w", err)
	}

	sessCount, err := a.archiveSessions(ctx)
	if err != nil {
		return fmt.Errorf("archive sessions: %w", err)
	}

	var pruned int64
	if a.bank != nil {
		pruned, err = a.bank.DeleteOlderThan(ctx, time.Now().UTC().Add(-bankRetention))
		if err != nil {
			return fmt.Errorf("prune question bank: %w", err)
		}
	}

	log.Printf("[maintenance] archived feedback=%d sessions=%d pruned_questions=%d", fbCount, sessCount, pruned)
	return nil
}

func (a *Archiver) archiveFeedback(ctx context.Context) (int, error) {
	entries, err := a.feedback.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, e := range entries {
		at := e.CreatedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		// Keyed by row ID so nightly re-runs overwrite instead of duplicating.
		key := storage.FeedbackKey(at, strconv.FormatInt(e.ID, 10))
		if err := a.store.PutJSON(ctx, key, e); err != nil {
			log.Printf("[maintenance] archive feedback entry id=%d failed: %v", e.ID, err)
			continue
		}
		archived++
	}
	return archived, nil
}

func (a *Archiver) archiveSessions(ctx context.Context) (int, error) {
	ids, err := a.sessions.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, id := range ids {
		var state quiz.SessionState
		if err := a.sessions.Get(ctx, id, &state); err != nil {
			// Expired between listing and load.
			continue
		}
		if len(state.History) == 0 {
			continue
		}
		if err := a.store.PutJSON(ctx, storage.SessionKey(id), &state); err != nil {
			log.Printf("[maintenance] archive session id=%s failed: %v", id, err)
			continue
		}
		archived++
	}
	return archived, nil
}
