package feedback

import (
	"context"
	"fmt"
	"log"
)

// archivePrefix is where the nightly job writes feedback objects.
const archivePrefix = "feedback/"

// ArchiveSource reads feedback entries back out of object storage.
type ArchiveSource interface {
	List(ctx context.Context, prefix string) ([]string, error)
	GetJSON(ctx context.Context, key string, dest any) error
}

// ArchivedAnalytics folds every archived feedback object into accuracy
// totals. Objects that fail to load are logged and skipped so one corrupt
// file does not hide the rest.
func ArchivedAnalytics(ctx context.Context, src ArchiveSource) (Analytics, error) {
	keys, err := src.List(ctx, archivePrefix)
	if err != nil {
		return Analytics{}, fmt.Errorf("list archived feedback: %w", err)
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		var e Entry
		if err := src.GetJSON(ctx, key, &e); err != nil {
			log.Printf("[feedback] load archived entry %s failed: %v", key, err)
			continue
		}
		entries = append(entries, e)
	}
	return ComputeAnalytics(entries), nil
}
