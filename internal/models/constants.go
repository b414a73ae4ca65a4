package models

import "strings"

// NormalizeDifficulty folds a client-supplied difficulty for comparison.
func NormalizeDifficulty(difficulty string) string {
	return strings.ToLower(strings.TrimSpace(difficulty))
}

// contains all supported difficulty levels (in lowercase)
var ValidDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

const DefaultDifficulty = "Medium"

// DisqualifiedPrefix is the legacy sentinel the old client wrote into the
// answer text. It is still accepted on the wire and converted to the
// disqualified answer status.
const DisqualifiedPrefix = "[Answer Disqualified"

// QuestionCount maps a difficulty to the number of questions requested from
// the AI provider. Unknown difficulties fall back to the Medium count; see
// DESIGN.md for why this is coercion rather than rejection.
func QuestionCount(difficulty string) int {
	switch NormalizeDifficulty(difficulty) {
	case "easy":
		return 5
	case "hard":
		return 10
	default:
		return 7
	}
}

// DifficultyGuideline is the per-difficulty instruction block injected into
// the generation prompt.
func DifficultyGuideline(difficulty string) string {
	switch NormalizeDifficulty(difficulty) {
	case "easy":
		return "Focus on foundational, single-part questions. Ask for definitions and basic concepts."
	case "hard":
		return "Focus on complex, multi-part questions about system design, architecture, and challenging behavioral scenarios."
	default:
		return "Focus on scenario-based questions that require comparing technologies or describing personal project experience."
	}
}
