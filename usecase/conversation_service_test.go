package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/robopal/server/adapters/ffmpeg"
	"github.com/robopal/server/adapters/llm"
	"github.com/robopal/server/adapters/tts"
	"github.com/robopal/server/internal/storage"
	"github.com/robopal/server/repository"
)

type stubSpeechToText struct {
	text string
	err  error
}

func (s *stubSpeechToText) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return s.text, s.err
}

type recordingReplies struct {
	replyCalls    int
	funFactCalls  int
	lastQuestion  string
	lastRedirect  bool
	reply         string
	funFact       string
	err           error
}

func (r *recordingReplies) Reply(ctx context.Context, question string) (string, error) {
	r.replyCalls++
	r.lastQuestion = question
	return r.reply, r.err
}

func (r *recordingReplies) FunFact(ctx context.Context, redirect bool) (string, error) {
	r.funFactCalls++
	r.lastRedirect = redirect
	return r.funFact, r.err
}

type recordingSynthesizer struct {
	calls int
	audio []byte
	err   error
}

func (s *recordingSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.calls++
	return s.audio, s.err
}

func newTestStore(t *testing.T) *storage.Scratch {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewScratch(
		filepath.Join(dir, "mic"),
		filepath.Join(dir, "responses"),
		ffmpeg.NewPassthrough(zaptest.NewLogger(t)),
		zaptest.NewLogger(t),
	)
	if err != nil {
		t.Fatalf("NewScratch returned error: %v", err)
	}
	return store
}

func TestConverseWithSpeech(t *testing.T) {
	stt := &stubSpeechToText{text: "why is the sky blue"}
	replies := &recordingReplies{reply: "Because sunlight scatters! Blue light bounces everywhere!"}
	synth := &recordingSynthesizer{audio: []byte("RIFF-wave")}
	service := NewConversationService(stt, replies, synth, newTestStore(t), zaptest.NewLogger(t))

	result, err := service.Converse(context.Background(), []byte("mic-bytes"))
	if err != nil {
		t.Fatalf("Converse returned error: %v", err)
	}

	if result.Text != "why is the sky blue" {
		t.Errorf("Expected transcript echoed, got '%s'", result.Text)
	}
	if result.Reply != replies.reply {
		t.Errorf("Expected generated reply, got '%s'", result.Reply)
	}
	if replies.lastQuestion != "why is the sky blue" {
		t.Errorf("Expected transcript forwarded as question, got '%s'", replies.lastQuestion)
	}
	if replies.funFactCalls != 0 {
		t.Error("Fun fact path must not run when speech was detected")
	}
	if !result.HasAudio {
		t.Error("Expected audio to be attached")
	}
	if !strings.HasSuffix(result.AudioFile, ".wav") {
		t.Errorf("Expected wav filename, got '%s'", result.AudioFile)
	}
}

func TestConverseEmptyTranscriptRedirectsToFunFact(t *testing.T) {
	stt := &stubSpeechToText{text: "   "}
	replies := &recordingReplies{funFact: "Sorry, I couldn't hear you! Did you know bees can dance?"}
	synth := &recordingSynthesizer{audio: []byte("RIFF-wave")}
	service := NewConversationService(stt, replies, synth, newTestStore(t), zaptest.NewLogger(t))

	result, err := service.Converse(context.Background(), []byte("quiet-bytes"))
	if err != nil {
		t.Fatalf("Converse returned error: %v", err)
	}

	if result.Text != "[No speech detected]" {
		t.Errorf("Expected no-speech marker, got '%s'", result.Text)
	}
	if result.Reply != replies.funFact {
		t.Errorf("Expected fun-fact reply, got '%s'", result.Reply)
	}
	if replies.replyCalls != 0 {
		t.Error("Question path must not run for an empty transcript")
	}
	if !replies.lastRedirect {
		t.Error("Expected fun fact to be requested with the apology redirect")
	}
	if !strings.Contains(result.AudioFile, "_funfact") {
		t.Errorf("Expected fun-fact label in filename, got '%s'", result.AudioFile)
	}
}

func TestConverseTranscriptionFailureStopsPipeline(t *testing.T) {
	providerErr := &repository.TranscriptionError{Message: "audio too short"}
	stt := &stubSpeechToText{err: providerErr}
	replies := &recordingReplies{}
	synth := &recordingSynthesizer{}
	service := NewConversationService(stt, replies, synth, newTestStore(t), zaptest.NewLogger(t))

	_, err := service.Converse(context.Background(), []byte("mic-bytes"))

	var transcriptionErr *repository.TranscriptionError
	if !errors.As(err, &transcriptionErr) {
		t.Fatalf("Expected transcription error to propagate, got %v", err)
	}

	if replies.replyCalls != 0 || replies.funFactCalls != 0 {
		t.Error("Reply generator must not be called after a transcription failure")
	}
	if synth.calls != 0 {
		t.Error("Synthesizer must not be called after a transcription failure")
	}
}

func TestConverseTimeoutStopsPipeline(t *testing.T) {
	stt := &stubSpeechToText{err: repository.ErrTranscriptionTimeout}
	replies := &recordingReplies{}
	synth := &recordingSynthesizer{}
	service := NewConversationService(stt, replies, synth, newTestStore(t), zaptest.NewLogger(t))

	_, err := service.Converse(context.Background(), []byte("mic-bytes"))
	if !errors.Is(err, repository.ErrTranscriptionTimeout) {
		t.Fatalf("Expected timeout to propagate, got %v", err)
	}

	if replies.replyCalls != 0 || replies.funFactCalls != 0 || synth.calls != 0 {
		t.Error("No downstream provider calls may happen after a transcription timeout")
	}
}

func TestConverseSynthesisFailureDegradesToTextOnly(t *testing.T) {
	stt := &stubSpeechToText{text: "tell me a joke"}
	replies := &recordingReplies{reply: "Why did the robot cross the road? To recharge on the other side!"}
	synth := &recordingSynthesizer{err: errors.New("tts provider down")}
	service := NewConversationService(stt, replies, synth, newTestStore(t), zaptest.NewLogger(t))

	result, err := service.Converse(context.Background(), []byte("mic-bytes"))
	if err != nil {
		t.Fatalf("Synthesis failures must not fail the request, got %v", err)
	}

	if result.HasAudio {
		t.Error("Expected text-only result when synthesis fails")
	}
	if result.AudioFile != "" {
		t.Errorf("Expected no audio file, got '%s'", result.AudioFile)
	}
	if result.Reply != replies.reply {
		t.Errorf("Expected reply to survive synthesis failure, got '%s'", result.Reply)
	}
}

func TestConverseGeneratorErrorStillReplies(t *testing.T) {
	stt := &stubSpeechToText{text: "hello"}
	replies := &recordingReplies{err: errors.New("generator broke")}
	synth := &recordingSynthesizer{audio: []byte("RIFF-wave")}
	service := NewConversationService(stt, replies, synth, newTestStore(t), zaptest.NewLogger(t))

	result, err := service.Converse(context.Background(), []byte("mic-bytes"))
	if err != nil {
		t.Fatalf("Generator errors must not fail the request, got %v", err)
	}

	if result.Reply == "" {
		t.Error("Expected some reply text even when the generator errors")
	}
}

func TestFunFact(t *testing.T) {
	replies := &recordingReplies{funFact: "Did you know octopuses have three hearts?"}
	synth := &recordingSynthesizer{audio: []byte("RIFF-wave")}
	service := NewConversationService(&stubSpeechToText{}, replies, synth, newTestStore(t), zaptest.NewLogger(t))

	result, err := service.FunFact(context.Background())
	if err != nil {
		t.Fatalf("FunFact returned error: %v", err)
	}

	if replies.lastRedirect {
		t.Error("Standalone fun fact must not apologize for not hearing the child")
	}
	if result.Reply != replies.funFact {
		t.Errorf("Expected fun fact text, got '%s'", result.Reply)
	}
	if !result.HasAudio {
		t.Error("Expected audio to be attached")
	}
}

// Mock adapters wired together cover the missing-credentials shape: the mock
// pipeline always yields a reply.
func TestConverseWithMockAdapters(t *testing.T) {
	logger := zaptest.NewLogger(t)
	service := NewConversationService(
		&stubSpeechToText{text: ""},
		llm.NewMockReplyGenerator(logger),
		tts.NewMockSynthesizer(logger),
		newTestStore(t),
		logger,
	)

	result, err := service.Converse(context.Background(), []byte("tiny"))
	if err != nil {
		t.Fatalf("Converse returned error: %v", err)
	}

	if result.Text != "[No speech detected]" {
		t.Errorf("Expected no-speech marker, got '%s'", result.Text)
	}
	if result.Reply == "" {
		t.Error("Expected mock reply to be populated")
	}
	if !result.HasAudio {
		t.Error("Expected mock audio to be attached")
	}
}
