package tts

import (
	"context"

	"go.uber.org/zap"

	"github.com/robopal/server/repository"
)

// MockSynthesizer is a placeholder implementation returning a fixed byte
// pattern instead of real audio
type MockSynthesizer struct {
	logger *zap.Logger
}

// NewMockSynthesizer creates a new mock speech synthesizer
func NewMockSynthesizer(logger *zap.Logger) repository.SpeechSynthesizer {
	return &MockSynthesizer{logger: logger}
}

// Synthesize implements repository.SpeechSynthesizer
func (s *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.logger.Info("Synthesizing mock audio", zap.Int("textLength", len(text)))
	return []byte("RIFF-mock-wave-data"), nil
}
