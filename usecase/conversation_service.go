package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/robopal/server/domain/entities"
	"github.com/robopal/server/internal/storage"
	"github.com/robopal/server/repository"
)

// noSpeechText is what the device sees in the transcript slot when the
// provider detected no speech in the clip.
const noSpeechText = "[No speech detected]"

// fallbackReply covers the case where the reply generator itself errors,
// which OpenAI-backed generators never do by contract.
const fallbackReply = "Beep boop! Something went wrong in my robot brain!"

// ConversationService orchestrates one conversation turn: transcribe the
// uploaded clip, generate the robot's reply, synthesize it, and persist the
// audio for retrieval. Only the transcription stage may fail the turn;
// generation and synthesis degrade instead.
type ConversationService struct {
	speechToText repository.SpeechToText
	replies      repository.ReplyGenerator
	synthesizer  repository.SpeechSynthesizer
	store        *storage.Scratch
	logger       *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	stt repository.SpeechToText,
	replies repository.ReplyGenerator,
	synthesizer repository.SpeechSynthesizer,
	store *storage.Scratch,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		speechToText: stt,
		replies:      replies,
		synthesizer:  synthesizer,
		store:        store,
		logger:       logger,
	}
}

// Converse processes a device audio upload end to end.
func (s *ConversationService) Converse(ctx context.Context, audio []byte) (*entities.ConversationResult, error) {
	label := entities.NewLabel(time.Now())

	if _, err := s.store.SaveUpload(entities.Upload{Label: label, Data: audio}); err != nil {
		return nil, err
	}

	s.logger.Info("Transcribing audio",
		zap.String("label", label.String()),
		zap.Int("audioSize", len(audio)))

	transcript, err := s.speechToText.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(transcript) == "" {
		s.logger.Info("No speech detected, redirecting to fun fact",
			zap.String("label", label.String()))

		reply := s.generate(ctx, func() (string, error) {
			return s.replies.FunFact(ctx, true)
		})

		result := &entities.ConversationResult{
			Text:  noSpeechText,
			Reply: reply,
		}
		s.attachAudio(ctx, result, label.WithSuffix("_funfact"), reply)
		return result, nil
	}

	s.logger.Info("Transcription completed", zap.String("text", transcript))

	reply := s.generate(ctx, func() (string, error) {
		return s.replies.Reply(ctx, transcript)
	})

	result := &entities.ConversationResult{
		Text:  transcript,
		Reply: reply,
	}
	s.attachAudio(ctx, result, label, reply)
	return result, nil
}

// FunFact produces a standalone fun-fact turn for the device's fun-fact
// button; no upload or transcription is involved.
func (s *ConversationService) FunFact(ctx context.Context) (*entities.ConversationResult, error) {
	label := entities.NewLabel(time.Now()).WithSuffix("_funfact")

	reply := s.generate(ctx, func() (string, error) {
		return s.replies.FunFact(ctx, false)
	})

	result := &entities.ConversationResult{
		Text:  reply,
		Reply: reply,
	}
	s.attachAudio(ctx, result, label, reply)
	return result, nil
}

// generate runs a reply generator call and swallows its error; the listener
// always gets some reply text.
func (s *ConversationService) generate(ctx context.Context, fn func() (string, error)) string {
	reply, err := fn()
	if err != nil {
		s.logger.Error("Reply generation failed", zap.Error(err))
		return fallbackReply
	}
	return reply
}

// attachAudio synthesizes the reply and stores the result under the label.
// Any failure leaves the result text-only.
func (s *ConversationService) attachAudio(ctx context.Context, result *entities.ConversationResult, label entities.Label, reply string) {
	audio, err := s.synthesizer.Synthesize(ctx, reply)
	if err != nil {
		s.logger.Warn("Speech synthesis unavailable, responding text-only",
			zap.String("label", label.String()),
			zap.Error(err))
		return
	}

	stored, err := s.store.StoreResponseAudio(ctx, label, audio)
	if err != nil {
		s.logger.Error("Failed to store response audio, responding text-only",
			zap.String("label", label.String()),
			zap.Error(err))
		return
	}

	result.HasAudio = true
	result.AudioFile = stored.Filename
}
