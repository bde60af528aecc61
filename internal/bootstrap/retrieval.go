package bootstrap

import (
	"context"
	"fmt"

	"github.com/brainbee-training/brainbee-backend/config"
	"github.com/brainbee-training/brainbee-backend/internal/quiz"
	"github.com/brainbee-training/brainbee-backend/internal/retrieval"
)

// BuildIndex chunks and embeds the corpus for every quiz category. force
// bypasses the on-disk embedding cache.
func BuildIndex(ctx context.Context, embedder retrieval.Embedder, cfg config.RetrievalConfig, force bool) (*retrieval.Index, error) {
	ix := retrieval.NewIndex()

	indexed, err := retrieval.NewLoader(embedder, cfg).Build(ctx, ix, quiz.Categories, force)
	if err != nil {
		return nil, fmt.Errorf("build retrieval index: %w", err)
	}
	if indexed == 0 {
		return nil, fmt.Errorf("no corpus files found in %s", cfg.CorpusDir)
	}
	return ix, nil
}
