package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/robopal/server/adapters/ffmpeg"
	"github.com/robopal/server/adapters/llm"
	"github.com/robopal/server/adapters/stt"
	"github.com/robopal/server/adapters/tts"
	"github.com/robopal/server/internal/api"
	"github.com/robopal/server/internal/config"
	"github.com/robopal/server/internal/storage"
	"github.com/robopal/server/repository"
	"github.com/robopal/server/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	// Missing provider keys degrade behavior instead of refusing to start
	if cfg.AssemblyAIKey == "" {
		logger.Warn("ASSEMBLYAI_API_KEY not set; uploads will fail at transcription")
	}
	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY not set; replies fall back to static text without audio")
	}

	// Probe the resampling tool once; the synthesizer is converter-agnostic
	var converter repository.AudioConverter
	if ffmpeg.Available() {
		logger.Info("ffmpeg found, response audio will be resampled for the device")
		converter = ffmpeg.NewConverter(logger)
	} else {
		logger.Warn("ffmpeg not found, serving provider audio as-is; install ffmpeg for best quality")
		converter = ffmpeg.NewPassthrough(logger)
	}

	store, err := storage.NewScratch(cfg.MicInputDir, cfg.AudioResponseDir, converter, logger)
	if err != nil {
		logger.Fatal("failed to initialize scratch storage", zap.Error(err))
	}

	// Initialize adapters
	speechToText := stt.NewClient(stt.Config{APIKey: cfg.AssemblyAIKey}, logger)
	replies := llm.NewReplyGenerator(llm.Config{APIKey: cfg.OpenAIKey}, logger)
	synthesizer := tts.NewSynthesizer(tts.Config{APIKey: cfg.OpenAIKey}, logger)

	// Initialize usecase services
	conversations := usecase.NewConversationService(speechToText, replies, synthesizer, store, logger)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	api.InitRoutes(e, conversations, store, cfg.Environment, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Relay server started",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Environment))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
