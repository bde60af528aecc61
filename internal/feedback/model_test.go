package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeAnalytics(t *testing.T) {
	entries := []Entry{
		{Category: "Neuroanatomy", IsCorrect: true},
		{Category: "Neuroanatomy", IsCorrect: false},
		{Category: "Motor system", IsCorrect: true},
		{IsCorrect: false}, // no category recorded
	}

	a := ComputeAnalytics(entries)

	assert.Equal(t, 4, a.TotalFeedback)
	assert.Equal(t, 2, a.CorrectAnswers)
	assert.InDelta(t, 50.0, a.OverallAccuracy, 1e-9)
	assert.InDelta(t, 50.0, a.Categories["Neuroanatomy"].Accuracy, 1e-9)
	assert.InDelta(t, 100.0, a.Categories["Motor system"].Accuracy, 1e-9)
	assert.Equal(t, 1, a.Categories["Unknown"].Total)
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	a := ComputeAnalytics(nil)

	assert.Zero(t, a.TotalFeedback)
	assert.Zero(t, a.OverallAccuracy)
	assert.Empty(t, a.Categories)
}
