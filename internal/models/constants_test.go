package models

import "testing"

func TestQuestionCount(t *testing.T) {
	cases := []struct {
		difficulty string
		want       int
	}{
		{"Easy", 5},
		{"easy", 5},
		{"Medium", 7},
		{"Hard", 10},
		{" hard ", 10},
		{"Expert", 7}, // unknown difficulties fall back to the Medium count
		{"", 7},
	}
	for _, tc := range cases {
		if got := QuestionCount(tc.difficulty); got != tc.want {
			t.Errorf("QuestionCount(%q) = %d, want %d", tc.difficulty, got, tc.want)
		}
	}
}

func TestDifficultyGuidelineDistinctPerLevel(t *testing.T) {
	easy := DifficultyGuideline("easy")
	medium := DifficultyGuideline("medium")
	hard := DifficultyGuideline("hard")
	if easy == medium || medium == hard || easy == hard {
		t.Fatalf("expected distinct guidelines per difficulty")
	}
	if DifficultyGuideline("unknown") != medium {
		t.Fatalf("unknown difficulty should use the medium guideline")
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	if NormalizeDifficulty("  HARD ") != "hard" {
		t.Fatalf("expected case and whitespace folding")
	}
}
