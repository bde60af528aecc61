package retrieval

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// cachedCategory is the on-disk embedding cache for one category. The cache
// is advisory: anything unreadable is rebuilt from the corpus.
type cachedCategory struct {
	Raw    string
	Chunks []Chunk
}

func cachePath(cacheDir, category string) string {
	name := strings.ReplaceAll(category, string(os.PathSeparator), "_")
	return filepath.Join(cacheDir, name+"_embeddings.gob")
}

func loadCache(cacheDir, category string) (*cachedCategory, error) {
	f, err := os.Open(cachePath(cacheDir, category))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cached cachedCategory
	if err := gob.NewDecoder(f).Decode(&cached); err != nil {
		return nil, fmt.Errorf("decode cache for %s: %w", category, err)
	}
	if len(cached.Chunks) == 0 {
		return nil, fmt.Errorf("cache for %s is empty", category)
	}
	return &cached, nil
}

func saveCache(cacheDir, category string, cached *cachedCategory) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(cacheDir, "embeddings-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(cached); err != nil {
		tmp.Close()
		return fmt.Errorf("encode cache for %s: %w", category, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), cachePath(cacheDir, category))
}
