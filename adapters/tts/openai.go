package tts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/robopal/server/repository"
)

const (
	defaultVoice = openai.VoiceNova // child-friendly voice
	defaultSpeed = 0.9              // slightly slower for kids
	// The provider synthesizes at its own fixed rate (24 kHz); conversion to
	// the device rate happens after the bytes land on disk.
	requestTimeout = 30 * time.Second
)

// Config holds configuration for the OpenAI speech synthesizer.
// Required fields:
// - APIKey: Your OpenAI API key
// Optional fields with defaults:
// - BaseURL: API base URL override, mainly for tests
// - Voice: voice preset (default: nova)
// - Speed: playback speed multiplier (default: 0.9)
type Config struct {
	APIKey  string
	BaseURL string
	Voice   openai.SpeechVoice
	Speed   float64
}

// OpenAISynthesizer implements SpeechSynthesizer using the OpenAI speech API,
// requesting waveform output so the device can play it without a decoder.
type OpenAISynthesizer struct {
	client *openai.Client
	voice  openai.SpeechVoice
	speed  float64
	logger *zap.Logger
}

// Ensure OpenAISynthesizer implements the SpeechSynthesizer interface
var _ repository.SpeechSynthesizer = (*OpenAISynthesizer)(nil)

// NewSynthesizer creates a new OpenAI-backed speech synthesizer. A missing
// API key leaves the client nil; Synthesize then fails fast and the pipeline
// degrades to a text-only response.
func NewSynthesizer(config Config, logger *zap.Logger) *OpenAISynthesizer {
	var client *openai.Client
	if config.APIKey != "" {
		clientConfig := openai.DefaultConfig(config.APIKey)
		if config.BaseURL != "" {
			clientConfig.BaseURL = config.BaseURL
		}
		client = openai.NewClientWithConfig(clientConfig)
	}

	voice := config.Voice
	if voice == "" {
		voice = defaultVoice
	}

	speed := config.Speed
	if speed == 0 {
		speed = defaultSpeed
	}

	return &OpenAISynthesizer{
		client: client,
		voice:  voice,
		speed:  speed,
		logger: logger,
	}
}

// Synthesize converts reply text to waveform audio bytes.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.client == nil {
		return nil, fmt.Errorf("speech synthesis unavailable: missing API key")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatWav,
		Speed:          s.speed,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}

	s.logger.Info("Speech synthesized",
		zap.Int("textLength", len(text)),
		zap.Int("audioSize", len(audio)))
	return audio, nil
}
