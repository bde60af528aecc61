package quiz

import "time"

// Categories is the fixed set of Brain Bee study categories. Each one maps to
// a <category>.txt reference text in the corpus directory.
var Categories = []string{
	"Sensory system",
	"Motor system",
	"Neural communication (electrical and chemical)",
	"Neuroanatomy",
	"Higher cognition",
	"Neurology (Diseases of the Brain)",
}

func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type Question struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Prompt        string    `json:"question"`
	Options       []Option  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	Source        string    `json:"source"` // "generated" or "bank"
	CreatedAt     time.Time `json:"created_at"`
}

// AnswerRecord is one entry of a session's answer history.
type AnswerRecord struct {
	Question      string    `json:"question"`
	Options       []Option  `json:"options"`
	Category      string    `json:"category"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	Feedback      string    `json:"feedback"`
	IsCorrect     bool      `json:"is_correct"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// SessionState mirrors the per-visitor quiz state: the question currently on
// screen plus everything answered so far.
type SessionState struct {
	Current *Question      `json:"current,omitempty"`
	History []AnswerRecord `json:"history"`
}

// Evaluate compares a submitted answer letter against the question and builds
// the feedback line shown to the user.
func Evaluate(q *Question, userAnswer string) (feedback string, correct bool) {
	if userAnswer == q.CorrectAnswer {
		return "Correct! " + q.Explanation, true
	}
	return "Incorrect. The correct answer was " + q.CorrectAnswer + ". " + q.Explanation, false
}
