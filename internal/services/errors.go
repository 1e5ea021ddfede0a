package services

import "errors"

// Error taxonomy surfaced to handlers. Gateway and parse failures are never
// part of it; those always resolve to documented fallback content.
var (
	ErrInterviewNotFound  = errors.New("interview not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrEmptyExtraction    = errors.New("could not extract text from file")
	ErrNoQuestions        = errors.New("no questions answered")
)
