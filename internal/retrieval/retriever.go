package retrieval

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/brainbee-training/brainbee-backend/config"
)

const (
	fallbackSectionSize = 2000
	fallbackSections    = 4
)

// Retriever selects the passage context fed into question-generation prompts:
// LLM-expanded queries, cosine search over the category index, score-ranked
// merge under the context budget, and random section sampling when the
// semantic path is unavailable.
type Retriever struct {
	index      *Index
	embedder   Embedder
	chatter    Chatter
	topK       int
	maxContext int
}

func NewRetriever(ix *Index, embedder Embedder, chatter Chatter, cfg config.RetrievalConfig) *Retriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 2
	}
	maxContext := cfg.MaxContextChars
	if maxContext <= 0 {
		maxContext = 8000
	}
	return &Retriever{
		index:      ix,
		embedder:   embedder,
		chatter:    chatter,
		topK:       topK,
		maxContext: maxContext,
	}
}

// RelevantContent implements quiz.ContentRetriever.
func (r *Retriever) RelevantContent(ctx context.Context, category string) (string, error) {
	if r.index.Len(category) == 0 {
		log.Printf("[retrieval] no index for %q, falling back to random selection", category)
		return r.fallbackRandom(category)
	}

	queries := SmartQueries(ctx, r.chatter, category)

	vecs, err := r.embedder.Embed(ctx, queries)
	if err != nil {
		log.Printf("[retrieval] embedding queries failed category=%q err=%v, falling back", category, err)
		return r.fallbackRandom(category)
	}

	// Keep the best score per chunk across all queries.
	best := make(map[string]float64)
	for _, vec := range vecs {
		for _, s := range r.index.Search(category, vec, r.topK) {
			if s.Score > best[s.Text] {
				best[s.Text] = s.Score
			}
		}
	}
	if len(best) == 0 {
		return r.fallbackRandom(category)
	}

	ranked := make([]Scored, 0, len(best))
	for text, score := range best {
		ranked = append(ranked, Scored{Text: text, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Text < ranked[j].Text
	})

	var combined strings.Builder
	for _, s := range ranked {
		if combined.Len()+len(s.Text) >= r.maxContext {
			break
		}
		combined.WriteString(s.Text)
		combined.WriteString("\n\n")
	}

	content := strings.TrimSpace(combined.String())
	if content == "" {
		return r.fallbackRandom(category)
	}
	return content, nil
}

// fallbackRandom mirrors the pre-embedding behavior: sample a handful of
// random fixed-size sections so generation doesn't fixate on the start of
// the reference text.
func (r *Retriever) fallbackRandom(category string) (string, error) {
	raw := r.index.RawText(category)
	if raw == "" {
		return "", fmt.Errorf("retrieval: no reference text for category %q", category)
	}

	if len(raw) <= r.maxContext {
		return raw, nil
	}

	totalSections := len(raw) / fallbackSectionSize
	if totalSections <= fallbackSections {
		return cutAtRune(raw, r.maxContext), nil
	}

	sections := make([]string, 0, fallbackSections)
	for _, idx := range rand.Perm(totalSections)[:fallbackSections] {
		start := runeStart(raw, idx*fallbackSectionSize)
		end := start + fallbackSectionSize
		if end > len(raw) {
			end = len(raw)
		} else {
			end = runeStart(raw, end)
		}
		sections = append(sections, raw[start:end])
	}

	content := strings.Join(sections, " ")
	return cutAtRune(content, r.maxContext), nil
}

// runeStart moves a byte offset back to the start of the rune it falls in,
// so section boundaries never split a multibyte character.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// cutAtRune truncates s to at most max bytes without splitting a rune.
func cutAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:runeStart(s, max)]
}
