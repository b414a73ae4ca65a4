package utils

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// StripFences removes a markdown code-fence wrapper that models sometimes
// add around JSON output despite being told not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var ErrNoQuestions = errors.New("model response contained no questions")

// ParseQuestions extracts a list of question strings from raw model output.
// Accepts either a bare JSON array or an object with a "questions" key.
// Malformed output is an error, never an empty success.
func ParseQuestions(raw string) ([]string, error) {
	text := StripFences(raw)
	if !gjson.Valid(text) {
		return nil, errors.New("model response is not valid JSON")
	}

	parsed := gjson.Parse(text)
	list := parsed
	if !parsed.IsArray() {
		list = parsed.Get("questions")
		if !list.IsArray() {
			return nil, errors.New("model response is neither an array nor an object with a questions key")
		}
	}

	var questions []string
	for _, item := range list.Array() {
		q := strings.TrimSpace(item.String())
		if q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// GradingResult mirrors the JSON object the grading prompt asks for.
type GradingResult struct {
	Strengths    []string
	Improvements []string
	Score        int
}

// ParseGrading extracts the structured grading object from raw model output.
func ParseGrading(raw string) (*GradingResult, error) {
	text := StripFences(raw)

	// The model occasionally prepends prose; recover the outermost object.
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}
	if !gjson.Valid(text) {
		return nil, errors.New("grading response is not valid JSON")
	}

	parsed := gjson.Parse(text)
	score := parsed.Get("score")
	if !score.Exists() {
		return nil, errors.New("grading response is missing the score key")
	}
	n := int(score.Int())
	if n < 0 || n > 100 {
		return nil, errors.New("grading score is out of the 0-100 range")
	}

	result := &GradingResult{Score: n}
	for _, s := range parsed.Get("strengths").Array() {
		result.Strengths = append(result.Strengths, s.String())
	}
	for _, s := range parsed.Get("improvements").Array() {
		result.Improvements = append(result.Improvements, s.String())
	}
	return result, nil
}
