package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOverlappingShortText(t *testing.T) {
	chunks := SplitOverlapping("The brain is plastic.", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "The brain is plastic.", chunks[0])
}

func TestSplitOverlappingCoversAllText(t *testing.T) {
	sentence := "Neurons communicate across synapses using neurotransmitters. "
	text := strings.Repeat(sentence, 80) // ~4800 chars

	chunks := SplitOverlapping(text, 1000, 200)
	require.Greater(t, len(chunks), 3)

	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 1000)
		assert.NotEmpty(t, c)
	}

	// The last sentence must land in some chunk.
	assert.Contains(t, chunks[len(chunks)-1], "neurotransmitters")
}

func TestSplitOverlappingBreaksAtSentenceBoundary(t *testing.T) {
	// A period at 80% of the window should become the chunk end.
	text := strings.Repeat("a", 790) + ". " + strings.Repeat("b", 600)

	chunks := SplitOverlapping(text, 1000, 200)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0], "."), "first chunk should end at the sentence boundary, got %q tail", chunks[0][len(chunks[0])-10:])
}

func TestSplitOverlappingOverlapCarriesContext(t *testing.T) {
	text := strings.Repeat("x", 2500)

	chunks := SplitOverlapping(text, 1000, 200)
	// 1000-char windows stepping 800 over 2500 chars.
	assert.Len(t, chunks, 4)
}

func TestSplitParagraphsDropsShortParagraphs(t *testing.T) {
	text := "Tiny.\n\n" + strings.Repeat("The hippocampus consolidates declarative memories. ", 3)

	chunks := SplitParagraphs(text, 1000)
	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0], "Tiny")
}

func TestSplitParagraphsRepacksLongParagraph(t *testing.T) {
	long := strings.Repeat("Dopaminergic neurons of the substantia nigra project to the striatum and modulate movement initiation through the basal ganglia circuit. ", 20)

	chunks := SplitParagraphs(long, 500)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 650) // one sentence of slack past maxSize
		assert.True(t, strings.HasSuffix(c, "."))
	}
}

func TestSplitParagraphsEmptyInput(t *testing.T) {
	assert.Empty(t, SplitParagraphs("", 1000))
	assert.Empty(t, SplitParagraphs("\n\n\n", 1000))
}
