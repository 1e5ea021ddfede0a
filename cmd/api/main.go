package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"prepmate/interview-api/internal/config"
	"prepmate/interview-api/internal/handlers"
	"prepmate/interview-api/internal/repositories"
	"prepmate/interview-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	interviewRepo := repositories.NewInterviewRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	draftRepo := repositories.NewDraftRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	vectorStore, err := services.NewQdrantStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := vectorStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize indexer
	indexer := services.NewIndexer(geminiService, vectorStore, cfg.Worker.Concurrency)
	indexer.Start(context.Background())
	log.Println("✅ Indexer started successfully")

	// Initialize core services
	extractor := services.NewDocumentExtractor()
	evaluator := services.NewAnswerEvaluator(geminiService, cfg.Worker.RetryMaxAttempts)

	sessionService := services.NewSessionService(
		interviewRepo,
		questionRepo,
		draftRepo,
		geminiService,
		vectorStore,
		indexer,
		extractor,
		evaluator,
		cfg.Worker.RetryMaxAttempts,
	)

	reportService := services.NewReportService(
		interviewRepo,
		questionRepo,
		geminiService,
		cfg.Worker.RetryMaxAttempts,
	)

	assistantService := services.NewAssistantService(geminiService, cfg.Worker.RetryMaxAttempts)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	interviewHandler := handlers.NewInterviewHandler(sessionService, cfg.Upload.MaxFileSize)
	reportHandler := handlers.NewReportHandler(reportService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Mock Interview API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Upload.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/interviews", interviewHandler.HandleCreate)
	api.Get("/interviews/history", interviewHandler.HandleHistory)
	api.Post("/interviews/:id/resume", interviewHandler.HandleUploadResume)
	api.Post("/interviews/:id/job-description", interviewHandler.HandleUploadJD)
	api.Post("/interviews/:id/start", interviewHandler.HandleStart)
	api.Post("/interviews/:id/questions/:qid/answer", interviewHandler.HandleSubmitAnswer)
	api.Get("/interviews/:id", interviewHandler.HandleGet)
	api.Get("/interviews/:id/questions", interviewHandler.HandleQuestions)
	api.Get("/interviews/:id/report", reportHandler.HandleGetReport)
	api.Post("/interviews/:id/draft", interviewHandler.HandleSaveDraft)
	api.Post("/assistant/help", assistantHandler.HandleHelp)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Mock Interview API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/interviews",
				"POST /api/v1/interviews/:id/resume",
				"POST /api/v1/interviews/:id/job-description",
				"POST /api/v1/interviews/:id/start",
				"POST /api/v1/interviews/:id/questions/:qid/answer",
				"GET /api/v1/interviews/:id/report",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		indexer.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
