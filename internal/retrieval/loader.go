package retrieval

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/brainbee-training/brainbee-backend/config"
)

// Embedder is the slice of the LLM client the retrieval layer needs.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

const embedBatchSize = 16

// Loader builds the in-memory index from <category>.txt corpus files, going
// through the on-disk embedding cache when the corpus hasn't changed.
type Loader struct {
	embedder Embedder
	cfg      config.RetrievalConfig
}

func NewLoader(embedder Embedder, cfg config.RetrievalConfig) *Loader {
	return &Loader{embedder: embedder, cfg: cfg}
}

// Build indexes the given categories. Missing corpus files are skipped with a
// log line so the server can still boot on a partial corpus; embedding
// failures are fatal because they would leave a silently degraded index.
// Returns the number of categories indexed.
func (l *Loader) Build(ctx context.Context, ix *Index, categories []string, force bool) (int, error) {
	indexed := 0

	for _, category := range categories {
		filename := filepath.Join(l.cfg.CorpusDir, category+".txt")
		raw, err := os.ReadFile(filename)
		if err != nil {
			log.Printf("[retrieval] skipping category %q: %v", category, err)
			continue
		}
		text := string(raw)

		if !force {
			if cached, err := loadCache(l.cfg.CacheDir, category); err == nil && cached.Raw == text {
				ix.SetCategory(category, cached.Raw, cached.Chunks)
				indexed++
				log.Printf("[retrieval] loaded %d cached chunks for %q", len(cached.Chunks), category)
				continue
			}
		}

		chunks, err := l.embedCategory(ctx, text)
		if err != nil {
			return indexed, fmt.Errorf("index category %q: %w", category, err)
		}
		ix.SetCategory(category, text, chunks)
		indexed++
		log.Printf("[retrieval] indexed %d chunks for %q", len(chunks), category)

		if err := saveCache(l.cfg.CacheDir, category, &cachedCategory{Raw: text, Chunks: chunks}); err != nil {
			log.Printf("[retrieval] caching %q failed: %v", category, err)
		}
	}

	return indexed, nil
}

func (l *Loader) embedCategory(ctx context.Context, text string) ([]Chunk, error) {
	var texts []string
	if l.cfg.ChunkOverlap > 0 {
		texts = SplitOverlapping(text, l.cfg.ChunkSize, l.cfg.ChunkOverlap)
	} else {
		texts = SplitParagraphs(text, l.cfg.ChunkSize)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no chunks produced")
	}

	chunks := make([]Chunk, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		vecs, err := l.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks [%d:%d]: %w", start, end, err)
		}
		for i, vec := range vecs {
			chunks = append(chunks, Chunk{Text: texts[start+i], Vector: vec})
		}
	}

	return chunks, nil
}
