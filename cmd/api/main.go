package main

import (
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

	"github.com/sira-labs/voice-assessment/internal/config"
	"github.com/sira-labs/voice-assessment/internal/handlers"
	"github.com/sira-labs/voice-assessment/internal/repositories"
	"github.com/sira-labs/voice-assessment/internal/services"
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
	sessionRepo := repositories.NewSessionRepository(db)
	audioRepo := repositories.NewAudioClipRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(
		cfg.Storage.UploadPath,
		cfg.Storage.AudioPath,
		cfg.Storage.ReportPath,
	)
	if err := storageService.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to create storage directories: %v", err)
	}

	extractorService := services.NewExtractorService()
	reportRenderer := services.NewPDFReportRenderer()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	analysisAdapter, err := services.NewGeminiAdapter(cfg.Gemini.APIKey, cfg.Gemini.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize speech service
	speechService := services.NewSpeechService(
		cfg.ElevenLabs.APIKey,
		cfg.ElevenLabs.VoiceID,
		cfg.ElevenLabs.Timeout,
		storageService,
	)
	log.Println("✅ Speech service initialized successfully")

	// Initialize assessor
	assessorService := services.NewAssessorService(
		sessionRepo,
		analysisAdapter,
		reportRenderer,
		storageService,
		cfg.Assessment.QuestionCap,
	)
	log.Println("✅ Assessor service initialized")

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(
		storageService,
		extractorService,
		assessorService,
		cfg.Storage.MaxFileSize,
	)
	assessmentHandler := handlers.NewAssessmentHandler(assessorService)
	reportHandler := handlers.NewReportHandler(assessorService, storageService)
	audioHandler := handlers.NewAudioHandler(speechService, storageService, audioRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SIRA Voice Assessment API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
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
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/sessions/:token/analyze", assessmentHandler.HandleAnalyze)
	api.Post("/sessions/:token/answers", assessmentHandler.HandleSubmitAnswer)
	api.Post("/sessions/:token/report", reportHandler.HandleGenerate)
	api.Get("/sessions/:token", assessmentHandler.HandleStatus)
	api.Get("/reports/:token", reportHandler.HandleDownload)
	api.Post("/audio", audioHandler.HandleSynthesize)
	api.Get("/audio/:filename", audioHandler.HandleServe)
	api.Post("/audio/:filename/transcription", audioHandler.HandleTranscribe)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "SIRA Voice Assessment API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/sessions/:token/analyze",
				"POST /api/v1/sessions/:token/answers",
				"POST /api/v1/sessions/:token/report",
				"GET /api/v1/sessions/:token",
				"GET /api/v1/reports/:token",
				"POST /api/v1/audio",
				"GET /api/v1/audio/:filename",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
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
