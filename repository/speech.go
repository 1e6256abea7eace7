package repository

import (
	"context"
	"errors"
)

// ErrTranscriptionTimeout is returned when a transcription job does not reach
// a terminal status within the configured poll attempt budget.
var ErrTranscriptionTimeout = errors.New("transcription timeout")

// TranscriptionError carries a failure message reported by the speech-to-text
// provider for a job that reached the failed status.
type TranscriptionError struct {
	Message string
}

func (e *TranscriptionError) Error() string {
	if e.Message == "" {
		return "transcription failed"
	}
	return e.Message
}

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// Transcribe converts audio data to text. An empty string with a nil
	// error means the provider detected no speech in the audio.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// SpeechSynthesizer abstracts text-to-speech services
type SpeechSynthesizer interface {
	// Synthesize converts text to waveform audio data.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
