package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `Question: Which structure is primarily damaged in prosopagnosia?
Options:
Option A: Fusiform gyrus
Option B: Superior temporal gyrus
Option C: Angular gyrus
Option D: Calcarine sulcus
Correct Answer: A
Explanation: The fusiform face area within the fusiform gyrus is specialized for face recognition.`

func TestParseResponseWellFormed(t *testing.T) {
	q, err := ParseResponse(wellFormed)
	require.NoError(t, err)

	assert.Equal(t, "Which structure is primarily damaged in prosopagnosia?", q.Prompt)
	require.Len(t, q.Options, 4)
	assert.Equal(t, "A", q.Options[0].Letter)
	assert.Equal(t, "Fusiform gyrus", q.Options[0].Text)
	assert.Equal(t, "D", q.Options[3].Letter)
	assert.Equal(t, "A", q.CorrectAnswer)
	assert.Contains(t, q.Explanation, "fusiform face area")
}

func TestParseResponseMarkdownNoise(t *testing.T) {
	text := `Question: What neurotransmitter is depleted in Parkinson's disease?
Options:
Option A: Serotonin
Option B: Dopamine
Option C: GABA
Option D: Glutamate
Correct Answer: **B**
Explanation: Degeneration of the substantia nigra pars compacta depletes striatal dopamine.`

	q, err := ParseResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "B", q.CorrectAnswer)
}

func TestParseResponseMultilineExplanation(t *testing.T) {
	text := wellFormed + "\nIt also spares object recognition,\nwhich distinguishes it from general visual agnosia."

	q, err := ParseResponse(text)
	require.NoError(t, err)
	// Strict parse captures everything after "Explanation:".
	assert.Contains(t, q.Explanation, "visual agnosia")
}

func TestParseResponseFallbackBareLetters(t *testing.T) {
	text := `Question: Which lobe hosts the primary auditory cortex?
A: Temporal lobe
B: Parietal lobe
C: Occipital lobe
D: Frontal lobe
Correct Answer: A.
Explanation: Heschl's gyrus in the temporal lobe contains the primary auditory cortex.`

	q, err := ParseResponse(text)
	require.NoError(t, err)
	require.Len(t, q.Options, 4)
	assert.Equal(t, "Temporal lobe", q.Options[0].Text)
	assert.Equal(t, "A", q.CorrectAnswer)
}

func TestParseResponseRejectsMissingOption(t *testing.T) {
	text := `Question: Incomplete?
Option A: one
Option B: two
Option C: three
Correct Answer: A
Explanation: not enough options.`

	_, err := ParseResponse(text)
	require.Error(t, err)
}

func TestParseResponseRejectsAnswerOutsideOptions(t *testing.T) {
	text := `Question: Which is it?
Option A: one
Option B: two
Option C: three
Option D: four
Correct Answer: E
Explanation: the model hallucinated a fifth option.`

	_, err := ParseResponse(text)
	require.Error(t, err)
}

func TestParseResponseRejectsGarbage(t *testing.T) {
	_, err := ParseResponse("I'm sorry, I can't produce a question right now.")
	require.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	q := &Question{CorrectAnswer: "B", Explanation: "Because biology."}

	fb, ok := Evaluate(q, "B")
	assert.True(t, ok)
	assert.Equal(t, "Correct! Because biology.", fb)

	fb, ok = Evaluate(q, "C")
	assert.False(t, ok)
	assert.Equal(t, "Incorrect. The correct answer was B. Because biology.", fb)
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Neuroanatomy"))
	assert.False(t, ValidCategory("Astrology"))
}
