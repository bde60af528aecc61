package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brainbee-training/brainbee-backend/internal/llm"
)

// Evaluation is the model's structured judgement of a generated question.
type Evaluation struct {
	QuestionQualityRating          int    `json:"question_quality_rating"`
	AnswerCorrectnessRating        int    `json:"answer_correctness_rating"`
	QuestionQualityJustification   string `json:"question_quality_justification"`
	AnswerCorrectnessJustification string `json:"answer_correctness_justification"`
	OverallAssessment              string `json:"overall_assessment"`
	DifficultyLevel                string `json:"difficulty_level"`
	SuggestedImprovements          string `json:"suggested_improvements"`
}

const ratingSystem = "You are a neuroscience assessment expert. Be strict and objective. Always respond with valid JSON only."

func ratingPrompt(question, correctAnswer, explanation string) string {
	return fmt.Sprintf(`You are evaluating a neuroscience multiple-choice quiz question. Please provide your evaluation in the following EXACT JSON format:

{
  "question_quality_rating": [1-10],
  "answer_correctness_rating": [1-10],
  "question_quality_justification": "[Detailed explanation of question quality rating]",
  "answer_correctness_justification": "[Detailed explanation of answer correctness rating]",
  "overall_assessment": "[Overall assessment of the question and answer]",
  "difficulty_level": "[easy/medium/hard/expert]",
  "suggested_improvements": "[Any suggestions for improving the question]"
}

QUESTION TO EVALUATE:
Question: %s
Correct Answer: %s
Explanation: %s

Provide ONLY the JSON response, no additional text.`, question, correctAnswer, explanation)
}

// Rater asks the model to grade a generated question.
type Rater struct {
	llm llm.Client
}

func NewRater(client llm.Client) *Rater {
	return &Rater{llm: client}
}

// Rate returns the parsed evaluation plus the raw JSON as stored alongside
// the feedback entry.
func (r *Rater) Rate(ctx context.Context, question, correctAnswer, explanation string) (*Evaluation, string, error) {
	resp, err := r.llm.Chat(ctx, ratingSystem, ratingPrompt(question, correctAnswer, explanation),
		llm.WithTemperature(0.3), llm.WithMaxTokens(600))
	if err != nil {
		return nil, "", fmt.Errorf("rating request: %w", err)
	}

	raw := stripJSONFence(resp)
	var eval Evaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return nil, "", fmt.Errorf("decode rating: %w", err)
	}
	return &eval, raw, nil
}

// stripJSONFence removes a surrounding ```json code fence, which some models
// add even when told not to.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
