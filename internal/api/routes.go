package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/robopal/server/domain/entities"
	"github.com/robopal/server/internal/storage"
)

// Conversations is the pipeline surface the HTTP layer depends on.
type Conversations interface {
	Converse(ctx context.Context, audio []byte) (*entities.ConversationResult, error)
	FunFact(ctx context.Context) (*entities.ConversationResult, error)
}

// AudioStore serves previously synthesized response audio.
type AudioStore interface {
	ResponseAudio(filename string) ([]byte, error)
}

type handler struct {
	conversations Conversations
	audio         AudioStore
	env           string
	logger        *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, conversations Conversations, audio AudioStore, env string, logger *zap.Logger) {
	h := &handler{
		conversations: conversations,
		audio:         audio,
		env:           env,
		logger:        logger,
	}

	e.GET("/", h.root)
	e.GET("/health", h.health)
	e.POST("/upload", h.upload)
	e.GET("/fun-fact", h.funFact)
	e.GET("/audio/:filename", h.serveAudio)
}

func (h *handler) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "RoboPal relay server",
		"endpoints": map[string]string{
			"health":   "/health",
			"upload":   "/upload",
			"fun_fact": "/fun-fact",
			"audio":    "/audio/<filename>",
		},
	})
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Env:    h.env,
	})
}

// upload receives a recorded clip from the device and runs the full
// transcribe/reply/synthesize pipeline before responding.
func (h *handler) upload(c echo.Context) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No audio file uploaded"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded audio", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded audio"})
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded audio", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded audio"})
	}

	result, err := h.conversations.Converse(c.Request().Context(), audio)
	if err != nil {
		h.logger.Error("Conversation pipeline failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, UploadResponse{
		Text:       result.Text,
		AIResponse: result.Reply,
		HasAudio:   result.HasAudio,
		AudioURL:   audioURL(result),
	})
}

func (h *handler) funFact(c echo.Context) error {
	result, err := h.conversations.FunFact(c.Request().Context())
	if err != nil {
		h.logger.Error("Fun fact pipeline failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, FunFactResponse{
		Text:     result.Reply,
		HasAudio: result.HasAudio,
		AudioURL: audioURL(result),
	})
}

func (h *handler) serveAudio(c echo.Context) error {
	filename := c.Param("filename")

	data, err := h.audio.ResponseAudio(filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Audio file not found"})
		}
		h.logger.Error("Failed to serve audio file",
			zap.String("filename", filename),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to serve audio file"})
	}

	h.logger.Info("Serving audio file",
		zap.String("filename", filename),
		zap.Int("size", len(data)))
	return c.Blob(http.StatusOK, "audio/wav", data)
}

func audioURL(result *entities.ConversationResult) string {
	if !result.HasAudio {
		return ""
	}
	return "/audio/" + result.AudioFile
}
