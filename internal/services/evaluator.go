package services

import (
	"context"
	"log"
	"math"
	"strings"

	"prepmate/interview-api/internal/models"
)

// AnswerEvaluation is the scoring result for one answer. Every evaluation
// path produces one; the session relies on that to never abort mid-submit.
type AnswerEvaluation struct {
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
	Strengths  string  `json:"strengths"`
	Weaknesses string  `json:"weaknesses"`
}

type AnswerEvaluator interface {
	Evaluate(ctx context.Context, question *models.Question, answerText string, timeTaken int) *AnswerEvaluation
}

type answerEvaluator struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewAnswerEvaluator(geminiService GeminiService, maxRetries int) AnswerEvaluator {
	return &answerEvaluator{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// Give-up phrases short-circuit the gateway call for non-attempts.
var giveUpPhrases = []string{
	"nil", "don't know", "dont know", "idk", "no idea", "not sure", "pass", "skip",
}

// Evaluate implements AnswerEvaluator. Pre-filters run first so empty and
// give-up answers never spend a gateway call; the gateway branch falls back
// to a neutral score when the response cannot be parsed.
func (e *answerEvaluator) Evaluate(ctx context.Context, question *models.Question, answerText string, timeTaken int) *AnswerEvaluation {
	trimmed := strings.TrimSpace(answerText)

	if len(trimmed) < 10 {
		return &AnswerEvaluation{
			Score:      0.0,
			Feedback:   "No meaningful answer provided. Please provide a detailed response.",
			Strengths:  "N/A",
			Weaknesses: "Answer not provided",
		}
	}

	if len(trimmed) < 50 && containsGiveUpPhrase(answerText) {
		return &AnswerEvaluation{
			Score:      5.0,
			Feedback:   "Answer appears incomplete or indicates lack of knowledge. Try your best to provide relevant information.",
			Strengths:  "Acknowledged uncertainty",
			Weaknesses: "Insufficient attempt at answering",
		}
	}

	return e.evaluateWithGateway(ctx, question, answerText, timeTaken)
}

func (e *answerEvaluator) evaluateWithGateway(ctx context.Context, question *models.Question, answerText string, timeTaken int) *AnswerEvaluation {
	prompt := e.promptBuilder.BuildAnswerEvaluationPrompt(
		question.QuestionText,
		answerText,
		question.TimeAllocated,
		timeTaken,
		question.Difficulty,
	)

	neutral := &AnswerEvaluation{
		Score:      50.0,
		Feedback:   "Unable to evaluate fully. Please provide more detailed answers.",
		Strengths:  "Answer provided",
		Weaknesses: "More detail needed",
	}

	response, err := e.geminiService.GenerateTextWithRetry(ctx, prompt, 0.3, e.maxRetries)
	if err != nil {
		log.Printf("⚠️  Answer evaluation failed, using neutral score: %v\n", err)
		return neutral
	}

	var result AnswerEvaluation
	if !decodeGenerated(response, &result) {
		log.Println("⚠️  Unparseable evaluation response, using neutral score")
		return neutral
	}

	timeEfficiency := math.Min(100, float64(question.TimeAllocated)/float64(max(timeTaken, 1))*100)
	result.Score = round2(result.Score*0.85 + timeEfficiency*0.15)

	return &result
}

func containsGiveUpPhrase(answer string) bool {
	lowered := strings.ToLower(answer)
	for _, phrase := range giveUpPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
