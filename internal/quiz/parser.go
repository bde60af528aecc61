package quiz

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	reQuestion     = regexp.MustCompile(`Question:\s*(.+)`)
	reOption       = regexp.MustCompile(`(?m)^\s*Option\s+([A-D]):\s*(.+)$`)
	reAnswer       = regexp.MustCompile(`Correct Answer:\s*\**([A-D])`)
	reExplanation  = regexp.MustCompile(`(?s)Explanation:\s*(.+)`)
	optionLetters  = []string{"A", "B", "C", "D"}
	errUnparseable = fmt.Errorf("quiz: response did not match expected format")
)

// ParseResponse extracts a question from the model's text output. It tries the
// strict regex parse first and falls back to line-prefix scanning when the
// model drifted from the format.
func ParseResponse(text string) (*Question, error) {
	q, err := parseStrict(text)
	if err == nil {
		return q, nil
	}
	return parseLines(text)
}

func parseStrict(text string) (*Question, error) {
	qm := reQuestion.FindStringSubmatch(text)
	opts := reOption.FindAllStringSubmatch(text, -1)
	am := reAnswer.FindStringSubmatch(text)
	em := reExplanation.FindStringSubmatch(text)

	if qm == nil || am == nil || em == nil || len(opts) != 4 {
		return nil, errUnparseable
	}

	options := make([]Option, 0, 4)
	for _, m := range opts {
		options = append(options, Option{Letter: m[1], Text: strings.TrimSpace(m[2])})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Letter < options[j].Letter })

	q := &Question{
		Prompt:        strings.TrimSpace(qm[1]),
		Options:       options,
		CorrectAnswer: strings.ToUpper(am[1]),
		Explanation:   strings.TrimSpace(em[1]),
	}
	if err := validate(q); err != nil {
		return nil, err
	}
	return q, nil
}

// parseLines is the forgiving fallback: walk the response line by line and
// pick up known prefixes wherever they appear.
func parseLines(text string) (*Question, error) {
	var q Question
	var explaining bool
	var explanation []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Question:"):
			q.Prompt = strings.TrimSpace(strings.TrimPrefix(line, "Question:"))
			explaining = false
		case strings.HasPrefix(line, "Correct Answer:"):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "Correct Answer:"))
			rest = strings.Trim(rest, "*. ")
			if len(rest) > 0 {
				q.CorrectAnswer = strings.ToUpper(rest[:1])
			}
			explaining = false
		case strings.HasPrefix(line, "Explanation:"):
			explanation = append(explanation, strings.TrimSpace(strings.TrimPrefix(line, "Explanation:")))
			explaining = true
		case parseOptionLine(line, &q):
			explaining = false
		case explaining:
			explanation = append(explanation, line)
		}
	}

	q.Explanation = strings.TrimSpace(strings.Join(explanation, " "))
	if err := validate(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

func parseOptionLine(line string, q *Question) bool {
	for _, prefix := range []string{"Option ", ""} {
		for _, letter := range optionLetters {
			p := prefix + letter + ":"
			if strings.HasPrefix(line, p) {
				q.Options = append(q.Options, Option{
					Letter: letter,
					Text:   strings.TrimSpace(strings.TrimPrefix(line, p)),
				})
				return true
			}
		}
		// Only fall through to the bare "A:" form if "Option A:" missed.
	}
	return false
}

func validate(q *Question) error {
	if q.Prompt == "" {
		return fmt.Errorf("quiz: missing question text")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("quiz: expected 4 options, found %d", len(q.Options))
	}

	seen := map[string]bool{}
	for _, o := range q.Options {
		if o.Text == "" {
			return fmt.Errorf("quiz: option %s is empty", o.Letter)
		}
		if seen[o.Letter] {
			return fmt.Errorf("quiz: duplicate option %s", o.Letter)
		}
		seen[o.Letter] = true
	}

	if q.CorrectAnswer == "" {
		return fmt.Errorf("quiz: missing correct answer")
	}
	if !seen[q.CorrectAnswer] {
		return fmt.Errorf("quiz: correct answer %s not found in options", q.CorrectAnswer)
	}
	if q.Explanation == "" {
		return fmt.Errorf("quiz: missing explanation")
	}
	return nil
}
