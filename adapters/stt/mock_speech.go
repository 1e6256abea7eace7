package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/robopal/server/repository"
)

// MockSpeechToText is a placeholder implementation for speech recognition
type MockSpeechToText struct {
	logger *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) repository.SpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

// Transcribe implements repository.SpeechToText. Transcripts are canned by
// audio size; clips under 1000 bytes count as silence.
func (s *MockSpeechToText) Transcribe(ctx context.Context, audio []byte) (string, error) {
	s.logger.Info("Processing speech-to-text",
		zap.Int("audioSize", len(audio)))

	switch {
	case len(audio) >= 10000:
		return "Why is the sky blue?", nil
	case len(audio) >= 5000:
		return "Tell me a joke!", nil
	case len(audio) >= 1000:
		return "Hello robot!", nil
	default:
		return "", nil
	}
}
