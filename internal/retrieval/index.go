package retrieval

import (
	"math"
	"sort"
	"sync"
)

// Chunk is one indexed passage of a category's reference text.
type Chunk struct {
	Text   string
	Vector []float32
}

type Scored struct {
	Text  string
	Score float64
}

// Index holds the per-category chunk vectors in memory plus the raw category
// text used by the random-sampling fallback. Safe for concurrent use.
type Index struct {
	mu         sync.RWMutex
	byCategory map[string][]Chunk
	rawText    map[string]string
}

func NewIndex() *Index {
	return &Index{
		byCategory: make(map[string][]Chunk),
		rawText:    make(map[string]string),
	}
}

func (ix *Index) SetCategory(category, raw string, chunks []Chunk) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.byCategory[category] = chunks
	ix.rawText[category] = raw
}

func (ix *Index) RawText(category string) string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.rawText[category]
}

func (ix *Index) Len(category string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byCategory[category])
}

func (ix *Index) Categories() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]string, 0, len(ix.byCategory))
	for c := range ix.byCategory {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Search returns the k chunks of the category most similar to the query
// vector, best first. A single linear pass is plenty at corpus scale (a few
// hundred chunks per category).
func (ix *Index) Search(category string, query []float32, k int) []Scored {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	chunks := ix.byCategory[category]
	if len(chunks) == 0 || len(query) == 0 || k <= 0 {
		return nil
	}

	scored := make([]Scored, 0, len(chunks))
	for _, c := range chunks {
		scored = append(scored, Scored{Text: c.Text, Score: CosineSimilarity(query, c.Vector)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// CosineSimilarity returns 0 for mismatched or zero-magnitude vectors rather
// than erroring, mirroring how search treats unusable chunks as irrelevant.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
