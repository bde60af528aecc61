package feedback

import (
	"context"
	"log"
)

// Recorder ties rating and persistence together. Recording happens off the
// request path, so failures are logged rather than surfaced to the player.
type Recorder struct {
	repo  *Repo
	rater *Rater
}

func NewRecorder(repo *Repo, rater *Rater) *Recorder {
	return &Recorder{repo: repo, rater: rater}
}

// Record grades the question when a rater is configured and stores the
// entry. The entry is stored even when rating fails.
func (s *Recorder) Record(ctx context.Context, e Entry, explanation string) error {
	if s.rater != nil {
		_, raw, err := s.rater.Rate(ctx, e.Question, e.CorrectAnswer, explanation)
		if err != nil {
			log.Printf("[feedback] rating failed category=%q err=%v", e.Category, err)
		} else {
			e.Evaluation = raw
		}
	}

	id, err := s.repo.Insert(ctx, e)
	if err != nil {
		return err
	}
	log.Printf("[feedback] recorded entry id=%d category=%q correct=%t", id, e.Category, e.IsCorrect)
	return nil
}

// Recent returns the latest entries for the analytics endpoint.
func (s *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.ListRecent(ctx, limit)
}

// Stats returns aggregate accuracy.
func (s *Recorder) Stats(ctx context.Context) (Analytics, error) {
	return s.repo.Stats(ctx)
}
