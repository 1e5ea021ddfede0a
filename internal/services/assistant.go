package services

import (
	"context"
	"log"
	"strings"
)

// AssistantService answers in-interview help requests with coach-style
// guidance that never hands over the direct answer.
type AssistantService interface {
	Help(ctx context.Context, question, userMessage string) string
}

type assistantService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewAssistantService(geminiService GeminiService, maxRetries int) AssistantService {
	return &assistantService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

const assistantFallback = "I'm here to help! Please try rephrasing your question."

// Help implements AssistantService. Gateway failures degrade to a canned
// response; the endpoint never errors on generation problems.
func (a *assistantService) Help(ctx context.Context, question, userMessage string) string {
	prompt := a.promptBuilder.BuildAssistantPrompt(question, userMessage)

	response, err := a.geminiService.GenerateTextWithRetry(ctx, prompt, 0.7, a.maxRetries)
	if err != nil {
		log.Printf("⚠️  Assistant generation failed: %v\n", err)
		return assistantFallback
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return assistantFallback
	}

	return response
}
