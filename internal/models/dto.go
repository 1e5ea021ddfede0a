package models

type CreateInterviewRequest struct {
	CandidateName  string `json:"candidate_name" validate:"required"`
	CandidateEmail string `json:"candidate_email" validate:"required,email"`
}

type JobDescriptionRequest struct {
	JDText string `json:"jd_text" validate:"required"`
}

type AnswerRequest struct {
	AnswerText string `json:"answer_text"`
	TimeTaken  int    `json:"time_taken"`
}

type DraftRequest struct {
	QuestionID  string `json:"question_id" validate:"required,uuid"`
	DraftAnswer string `json:"draft_answer"`
}

type AssistantRequest struct {
	InterviewID string `json:"interview_id"`
	Question    string `json:"question"`
	UserMessage string `json:"user_message"`
}

type ResumeUploadResponse struct {
	Success    bool       `json:"success"`
	ParsedData ResumeData `json:"parsed_data"`
	Message    string     `json:"message"`
}

// ResumeData is the structured résumé parse produced by the content gateway.
type ResumeData struct {
	Skills          []string `json:"skills"`
	ExperienceYears string   `json:"experience_years"`
	Projects        string   `json:"projects"`
	Education       string   `json:"education"`
}

type AnswerResponse struct {
	Question         *Question `json:"question"`
	PreviousScore    *float64  `json:"previous_score,omitempty"`
	PreviousFeedback *string   `json:"previous_feedback,omitempty"`
	Score            *float64  `json:"score,omitempty"`
	Feedback         *string   `json:"feedback,omitempty"`
	Reason           *string   `json:"reason,omitempty"`
	Terminated       bool      `json:"terminated"`
	Completed        bool      `json:"completed"`
}

type ReportResponse struct {
	InterviewID       string             `json:"interview_id"`
	OverallScore      float64            `json:"overall_score"`
	ReadinessLevel    string             `json:"readiness_level"`
	TotalQuestions    int                `json:"total_questions"`
	QuestionsAnswered int                `json:"questions_answered"`
	SkillScores       map[string]float64 `json:"skill_scores"`
	Strengths         []string           `json:"strengths"`
	Weaknesses        []string           `json:"weaknesses"`
	Recommendations   []string           `json:"recommendations"`
}

type AssistantResponse struct {
	Response string `json:"response"`
}
