// @title StudyNote.AI API
// @version 1.0
// @description Generates study notes, key terms and a quiz from a topic, a URL or an image, and exports them.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"studynote-ai/internal/app"
	"studynote-ai/internal/config"
	"studynote-ai/internal/domain"
	"studynote-ai/internal/handler"
	"studynote-ai/internal/input"
	"studynote-ai/internal/logger"
	"studynote-ai/internal/middleware"
	"studynote-ai/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	services, err := app.Build(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	defaultLevel, _ := domain.ParseLevel(cfg.Generation.DefaultLevel, domain.DefaultLevel)
	validator := validation.NewValidator(cfg.Generation.MaxImageBytes)

	notesHandler := handler.NewNotesHandler(services.Notes, input.NewCollector(cfg.Generation.MaxImageBytes), defaultLevel)
	pageHandler := handler.NewPageHandler(services.Cache, services.Generator.Name(), cfg.Store.Driver, services.PDFReady)
	validationMiddleware := middleware.NewValidationMiddleware(validator, defaultLevel)

	fiberApp := fiber.New(fiber.Config{
		AppName:      "StudyNote.AI",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(services.Renderer),
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(middleware.RequestLogger())
	fiberApp.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))

	handler.RegisterRoutes(fiberApp, notesHandler, pageHandler, validationMiddleware, cfg.Store.TTL)

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.Logger.Env),
			zap.String("provider", services.Generator.Name()),
			zap.Bool("pdf_ready", services.PDFReady),
		)
		if err := fiberApp.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
