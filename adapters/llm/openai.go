package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/robopal/server/repository"
)

const (
	defaultModel       = openai.GPT3Dot5Turbo
	defaultMaxTokens   = 80
	defaultTemperature = 0.8
	requestTimeout     = 10 * time.Second
)

// robotPrompt is the fixed persona for answering a child's question. The
// word budget keeps replies readable aloud within about 7 seconds.
const robotPrompt = `The following is a message asked by a child under 12 within the context of a robotics activity. You are a robot created for entertainment purposes. Please answer this message in an entertaining, yet informative way that does not include any profanity and remains age-appropriate. Your response should be short enough to be able to read out within 7 seconds (around 30-40 words max). Be enthusiastic and fun!

Child's question: `

const funFactPrompt = `You are a robot created to entertain children under 12. Share one surprising, age-appropriate fun fact about animals, space, or science. Keep it short enough to read out within 7 seconds (around 30-40 words max). Be enthusiastic and fun!`

const funFactRedirectPrefix = `Start by briefly apologizing that you could not quite hear what the child said, then cheer them up with the fact. `

// Static in-character fallbacks. The device has no way to display an error,
// so provider failures degrade to one of these instead of failing the request.
const (
	fallbackNoKey    = "Sorry! I need my AI brain to be connected to answer questions."
	fallbackAPIError = "My robot circuits are a bit confused right now! Ask me something else!"
	fallbackTimeout  = "I'm thinking too hard! Ask me again!"
	fallbackUnknown  = "Beep boop! Something went wrong in my robot brain!"
)

// Config holds configuration for the OpenAI reply generator.
type Config struct {
	APIKey  string
	BaseURL string // Optional: override for tests
}

// OpenAIReplyGenerator implements ReplyGenerator using OpenAI chat
// completions with the fixed robot persona.
type OpenAIReplyGenerator struct {
	client *openai.Client
	logger *zap.Logger
}

// Ensure OpenAIReplyGenerator implements the ReplyGenerator interface
var _ repository.ReplyGenerator = (*OpenAIReplyGenerator)(nil)

// NewReplyGenerator creates a new OpenAI-backed reply generator. A missing
// API key leaves the client nil; every call then returns the static
// no-brain fallback without going to the network.
func NewReplyGenerator(config Config, logger *zap.Logger) *OpenAIReplyGenerator {
	var client *openai.Client
	if config.APIKey != "" {
		clientConfig := openai.DefaultConfig(config.APIKey)
		if config.BaseURL != "" {
			clientConfig.BaseURL = config.BaseURL
		}
		client = openai.NewClientWithConfig(clientConfig)
	}

	return &OpenAIReplyGenerator{
		client: client,
		logger: logger,
	}
}

// Reply answers the child's question in the robot persona.
func (g *OpenAIReplyGenerator) Reply(ctx context.Context, question string) (string, error) {
	return g.complete(ctx, robotPrompt, question), nil
}

// FunFact produces a filler reply when no speech was detected or the device
// explicitly asks for one.
func (g *OpenAIReplyGenerator) FunFact(ctx context.Context, redirect bool) (string, error) {
	prompt := funFactPrompt
	if redirect {
		prompt = funFactRedirectPrefix + funFactPrompt
	}
	return g.complete(ctx, prompt, "Tell me a fun fact!"), nil
}

// complete runs one non-streaming completion and maps every failure mode to
// a static in-character string.
func (g *OpenAIReplyGenerator) complete(ctx context.Context, systemPrompt, userMessage string) string {
	if g.client == nil {
		return fallbackNoKey
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: defaultModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			g.logger.Warn("Chat completion timed out")
			return fallbackTimeout
		case errors.As(err, &apiErr):
			g.logger.Error("Chat completion rejected",
				zap.Int("statusCode", apiErr.HTTPStatusCode),
				zap.String("message", apiErr.Message))
			return fallbackAPIError
		default:
			g.logger.Error("Chat completion failed", zap.Error(err))
			return fallbackUnknown
		}
	}

	if len(resp.Choices) == 0 {
		g.logger.Error("Chat completion returned no choices")
		return fallbackUnknown
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return fallbackUnknown
	}

	g.logger.Info("Generated reply", zap.Int("length", len(reply)))
	return reply
}
