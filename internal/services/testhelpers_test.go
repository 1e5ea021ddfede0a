package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"prepmate/interview-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&models.Interview{}, &models.Question{}, &models.Draft{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// stubGemini scripts gateway behavior per test. A nil respond func fails
// every generation call, which exercises the fallback paths.
type stubGemini struct {
	respond  func(prompt string) (string, error)
	embedErr error
}

func (s *stubGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if s.respond == nil {
		return "", errors.New("no response configured")
	}
	return s.respond(prompt)
}

func (s *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return s.GenerateText(ctx, prompt, temperature)
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}
