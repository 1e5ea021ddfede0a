package services

import (
	"testing"

	"prepmate/interview-api/internal/models"
)

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		name           string
		lastScore      float64
		lastDifficulty models.Difficulty
		want           models.Difficulty
	}{
		{"high score from easy steps to medium", 80, models.DifficultyEasy, models.DifficultyMedium},
		{"high score from medium escalates to hard", 80, models.DifficultyMedium, models.DifficultyHard},
		{"high score from hard drops to medium", 90, models.DifficultyHard, models.DifficultyMedium},
		{"boundary 75 escalates", 75, models.DifficultyEasy, models.DifficultyMedium},
		{"mid score maps to medium", 60, models.DifficultyHard, models.DifficultyMedium},
		{"boundary 50 maps to medium", 50, models.DifficultyEasy, models.DifficultyMedium},
		{"low score maps to easy", 49.99, models.DifficultyMedium, models.DifficultyEasy},
		{"zero score maps to easy", 0, models.DifficultyHard, models.DifficultyEasy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDifficulty(tt.lastScore, tt.lastDifficulty); got != tt.want {
				t.Fatalf("NextDifficulty(%v, %v) = %v, want %v", tt.lastScore, tt.lastDifficulty, got, tt.want)
			}
		})
	}
}

func TestNextDifficultyNeverJumpsEasyToHard(t *testing.T) {
	for score := 0.0; score <= 100; score += 0.5 {
		if NextDifficulty(score, models.DifficultyEasy) == models.DifficultyHard {
			t.Fatalf("score %v escalated easy directly to hard", score)
		}
	}
}

func TestShouldTerminate(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   bool
	}{
		{"no answers", nil, false},
		{"single poor answer is not enough", []float64{0}, false},
		{"two poor answers terminate", []float64{10, 20}, true},
		{"mean exactly at threshold continues", []float64{30, 30}, false},
		{"strong average continues", []float64{80, 85, 90}, false},
		{"late collapse terminates", []float64{40, 10, 5, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ShouldTerminate(tt.scores)
			if got != tt.want {
				t.Fatalf("ShouldTerminate(%v) = %v, want %v", tt.scores, got, tt.want)
			}
			if got && reason != TerminationReason {
				t.Fatalf("expected termination reason %q, got %q", TerminationReason, reason)
			}
		})
	}
}

func TestMeanScore(t *testing.T) {
	if got := meanScore(nil); got != 0 {
		t.Fatalf("meanScore(nil) = %v, want 0", got)
	}
	if got := meanScore([]float64{10, 20, 30}); got != 20 {
		t.Fatalf("meanScore = %v, want 20", got)
	}
}
