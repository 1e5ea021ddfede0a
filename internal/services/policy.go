package services

import "prepmate/interview-api/internal/models"

const (
	// MaxQuestions is the answered-question ceiling that completes an interview.
	MaxQuestions = 8

	terminationMinAnswered = 2
	terminationThreshold   = 30.0

	// TerminationReason is returned to the caller when an interview ends early.
	TerminationReason = "Performance below threshold"
)

// NextDifficulty maps the last score and difficulty to the next tier.
// Escalation is a single step per round: easy never jumps straight to hard.
func NextDifficulty(lastScore float64, lastDifficulty models.Difficulty) models.Difficulty {
	switch {
	case lastScore >= 75:
		if lastDifficulty == models.DifficultyMedium {
			return models.DifficultyHard
		}
		return models.DifficultyMedium
	case lastScore >= 50:
		return models.DifficultyMedium
	default:
		return models.DifficultyEasy
	}
}

// ShouldTerminate decides early termination from the scores of all answered
// questions so far. It is evaluated strictly before the question-count
// ceiling: poor performance ends the interview even on the final question.
func ShouldTerminate(scores []float64) (bool, string) {
	if len(scores) < terminationMinAnswered {
		return false, ""
	}

	if meanScore(scores) < terminationThreshold {
		return true, TerminationReason
	}

	return false, ""
}

func meanScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
