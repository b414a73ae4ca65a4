package utils

import (
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `["a"]`, `["a"]`},
		{"json fence", "```json\n[\"a\"]\n```", `["a"]`},
		{"bare fence", "```\n[\"a\"]\n```", `["a"]`},
		{"whitespace", "  [\"a\"]  ", `["a"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripFences(tc.in); got != tc.want {
				t.Fatalf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseQuestionsBareArray(t *testing.T) {
	questions, err := ParseQuestions(`["What is a goroutine?", "Explain channels."]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0] != "What is a goroutine?" {
		t.Fatalf("unexpected first question: %q", questions[0])
	}
}

func TestParseQuestionsObjectForm(t *testing.T) {
	questions, err := ParseQuestions("```json\n{\"questions\": [\"Q1\", \"Q2\", \"Q3\"]}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
}

func TestParseQuestionsRejectsMalformedOutput(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not json", "here are your questions"},
		{"wrong shape", `{"items": ["Q1"]}`},
		{"empty array", `[]`},
		{"blank entries", `["", "   "]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseQuestions(tc.in); err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
		})
	}
}

func TestParseQuestionsEmptyListIsErrNoQuestions(t *testing.T) {
	_, err := ParseQuestions(`{"questions": []}`)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestParseGrading(t *testing.T) {
	raw := `{"strengths": ["clear"], "improvements": ["add detail"], "score": 85}`
	result, err := ParseGrading(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 85 {
		t.Fatalf("expected score 85, got %d", result.Score)
	}
	if len(result.Strengths) != 1 || result.Strengths[0] != "clear" {
		t.Fatalf("unexpected strengths: %v", result.Strengths)
	}
	if len(result.Improvements) != 1 {
		t.Fatalf("unexpected improvements: %v", result.Improvements)
	}
}

func TestParseGradingRecoversObjectFromProse(t *testing.T) {
	raw := "Here is the evaluation:\n{\"strengths\": [], \"improvements\": [], \"score\": 40}\nHope this helps."
	result, err := ParseGrading(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 40 {
		t.Fatalf("expected score 40, got %d", result.Score)
	}
}

func TestParseGradingRejectsBadOutput(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"no score", `{"strengths": []}`},
		{"score too high", `{"score": 150}`},
		{"score negative", `{"score": -1}`},
		{"not json", "the answer was fine"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseGrading(tc.in); err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
		})
	}
}
