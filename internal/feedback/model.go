package feedback

import "time"

// Entry is one answered question with its LLM evaluation. The same shape is
// stored in Postgres and in the archived JSON files.
type Entry struct {
	ID            int64     `json:"-"`
	Question      string    `json:"question"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	Evaluation    string    `json:"evaluation"`
	Category      string    `json:"category"`
	IsCorrect     bool      `json:"is_correct"`
	CreatedAt     time.Time `json:"timestamp"`
}

// CategoryStats is the per-category slice of Analytics.
type CategoryStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// Analytics aggregates answer accuracy across all recorded feedback.
type Analytics struct {
	TotalFeedback   int                      `json:"total_feedback"`
	TotalQuestions  int                      `json:"total_questions"`
	CorrectAnswers  int                      `json:"correct_answers"`
	OverallAccuracy float64                  `json:"overall_accuracy"`
	Categories      map[string]CategoryStats `json:"categories"`
}

// ComputeAnalytics folds entries into accuracy totals. Accuracy values are
// percentages.
func ComputeAnalytics(entries []Entry) Analytics {
	a := Analytics{Categories: make(map[string]CategoryStats)}

	for _, e := range entries {
		a.TotalFeedback++
		a.TotalQuestions++

		category := e.Category
		if category == "" {
			category = "Unknown"
		}
		stats := a.Categories[category]
		stats.Total++
		if e.IsCorrect {
			a.CorrectAnswers++
			stats.Correct++
		}
		a.Categories[category] = stats
	}

	if a.TotalQuestions > 0 {
		a.OverallAccuracy = float64(a.CorrectAnswers) / float64(a.TotalQuestions) * 100
	}
	for category, stats := range a.Categories {
		if stats.Total > 0 {
			stats.Accuracy = float64(stats.Correct) / float64(stats.Total) * 100
		}
		a.Categories[category] = stats
	}
	return a
}
