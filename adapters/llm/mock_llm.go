package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/robopal/server/repository"
)

// MockReplyGenerator is a placeholder implementation returning canned replies
type MockReplyGenerator struct {
	logger *zap.Logger
}

// NewMockReplyGenerator creates a new mock reply generator
func NewMockReplyGenerator(logger *zap.Logger) repository.ReplyGenerator {
	return &MockReplyGenerator{logger: logger}
}

// Reply implements repository.ReplyGenerator
func (g *MockReplyGenerator) Reply(ctx context.Context, question string) (string, error) {
	g.logger.Info("Generating mock reply", zap.String("question", question))
	return "Great question! Robots like me love to learn new things every single day!", nil
}

// FunFact implements repository.ReplyGenerator
func (g *MockReplyGenerator) FunFact(ctx context.Context, redirect bool) (string, error) {
	g.logger.Info("Generating mock fun fact", zap.Bool("redirect", redirect))
	if redirect {
		return "Oops, I couldn't hear you! But did you know octopuses have three hearts?", nil
	}
	return "Did you know octopuses have three hearts?", nil
}
