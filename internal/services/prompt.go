package services

import (
	"fmt"
	"strings"

	"prepmate/interview-api/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeParsePrompt creates prompt for structured résumé extraction
func (pb *PromptBuilder) BuildResumeParsePrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert resume parser. Analyze this resume and extract:
1. Technical skills (list)
2. Years of experience
3. Key projects or achievements (brief)
4. Educational background

Resume:
%s

Respond in JSON format with keys: skills (array), experience_years (string), projects (string), education (string)`,
		resumeText)
}

// BuildQuestionPrompt creates prompt for generating the next interview question
func (pb *PromptBuilder) BuildQuestionPrompt(
	skills []string,
	experience string,
	jdText string,
	questionNumber int,
	difficulty models.Difficulty,
	previousScore *float64,
	retrievedContext string,
) string {
	performance := "First question"
	if previousScore != nil {
		performance = fmt.Sprintf("%.2f", *previousScore)
	}

	jdExcerpt := jdText
	if len(jdExcerpt) > 500 {
		jdExcerpt = jdExcerpt[:500]
	}

	contextSection := ""
	if retrievedContext != "" {
		contextSection = fmt.Sprintf("\nRelevant candidate background:\n%s\n", retrievedContext)
	}

	return fmt.Sprintf(`You are an expert technical interviewer. Generate a %s difficulty interview question.

Candidate Profile:
- Skills: %s
- Experience: %s

Job Requirements:
%s
%s
Question Number: %d
Previous Performance: %s

Generate a question that:
1. Tests technical knowledge relevant to the job description
2. Is appropriate for %s difficulty
3. Can be answered in 2-5 minutes

Respond with JSON: {"question": "your question here", "time_allocated": seconds}`,
		difficulty, strings.Join(skills, ", "), experience, jdExcerpt, contextSection,
		questionNumber, performance, difficulty)
}

// BuildAnswerEvaluationPrompt creates prompt for scoring a single answer
func (pb *PromptBuilder) BuildAnswerEvaluationPrompt(
	questionText, answerText string,
	timeAllocated, timeTaken int,
	difficulty models.Difficulty,
) string {
	return fmt.Sprintf(`You are an expert interviewer. Evaluate this interview answer objectively:

Question (%s difficulty): %s
Answer: %s
Time Allocated: %ds
Time Taken: %ds

Evaluate on:
1. Accuracy (0-100)
2. Clarity (0-100)
3. Depth (0-100)
4. Relevance (0-100)

Provide:
- Overall score (0-100)
- Brief feedback (2-3 sentences)
- Key strengths
- Areas for improvement

Respond in JSON: {"score": number, "feedback": "text", "strengths": "text", "weaknesses": "text"}`,
		difficulty, questionText, answerText, timeAllocated, timeTaken)
}

// BuildReportInsightsPrompt creates prompt for the final report narrative
func (pb *PromptBuilder) BuildReportInsightsPrompt(overallScore float64, transcript string) string {
	return fmt.Sprintf(`You are an interview coach providing actionable feedback. Based on this interview performance (score: %.1f/100):

%s

Provide:
1. Top 3 strengths
2. Top 3 weaknesses
3. Top 3 actionable recommendations

Respond in JSON: {"strengths": ["s1", "s2", "s3"], "weaknesses": ["w1", "w2", "w3"], "recommendations": ["r1", "r2", "r3"]}`,
		overallScore, transcript)
}

// BuildAssistantPrompt creates prompt for coach-style help during a question
func (pb *PromptBuilder) BuildAssistantPrompt(question, userMessage string) string {
	return fmt.Sprintf(`You are a helpful interview coach. Provide guidance without giving direct answers.

Interview Question: %s

User needs help: %s

Provide helpful guidance that:
1. Clarifies the question if needed
2. Suggests approaches to think about
3. Does NOT give the direct answer
4. Encourages the candidate to think critically

Keep response concise (2-3 sentences).`,
		question, userMessage)
}

// FormatTranscript builds the per-question summary lines fed to the report
// insights prompt. Capped at 100 answered questions.
func FormatTranscript(questions []models.Question) string {
	var lines []string
	for i, q := range questions {
		if i >= 100 {
			break
		}

		text := q.QuestionText
		if len(text) > 100 {
			text = text[:100]
		}

		score := 0.0
		if q.Score != nil {
			score = *q.Score
		}

		lines = append(lines, fmt.Sprintf("Q%d: %s... Score: %g", i+1, text, score))
	}

	return strings.Join(lines, "\n")
}

// FormatRetrievedContext joins vector search hits into a prompt section.
func FormatRetrievedContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
