package retrieval

import (
	"regexp"
	"strings"
)

var (
	reParagraphs = regexp.MustCompile(`\n\n+`)
	reSentences  = regexp.MustCompile(`[.!?]+`)
)

// SplitOverlapping cuts text into fixed-size chunks with overlap between
// neighbors for context continuity. Chunks prefer to end on a sentence or
// line boundary when one falls in the last 30% of the window.
func SplitOverlapping(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = 0
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunk := text[start:end]

		if end < len(text) {
			boundary := lastBoundary(chunk)
			// Only shrink to a boundary in the tail of the window; otherwise
			// an early period would produce tiny chunks.
			if boundary > int(float64(size)*0.7) {
				chunk = chunk[:boundary+1]
				end = start + len(chunk)
			}
		}

		if trimmed := strings.TrimSpace(chunk); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

func lastBoundary(chunk string) int {
	boundary := -1
	for _, sep := range []string{".", "!", "?", "\n"} {
		if idx := strings.LastIndex(chunk, sep); idx > boundary {
			boundary = idx
		}
	}
	return boundary
}

// SplitParagraphs chunks text paragraph-first: short paragraphs are dropped,
// paragraphs within maxSize become chunks as-is, and oversized paragraphs are
// re-packed sentence by sentence.
func SplitParagraphs(text string, maxSize int) []string {
	const minParagraph = 50

	var chunks []string
	for _, paragraph := range reParagraphs.Split(text, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) < minParagraph {
			continue
		}

		if len(paragraph) <= maxSize {
			chunks = append(chunks, paragraph)
			continue
		}

		chunks = append(chunks, packSentences(paragraph, maxSize)...)
	}
	return chunks
}

func packSentences(paragraph string, maxSize int) []string {
	var chunks []string
	var current strings.Builder

	for _, sentence := range reSentences.Split(paragraph, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if current.Len()+len(sentence) >= maxSize && current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
		current.WriteString(". ")
	}

	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}
