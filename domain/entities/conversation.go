package entities

import (
	"time"

	"github.com/google/uuid"
)

// Label identifies the artifacts of one conversation turn: the debug copy of
// the uploaded audio and the synthesized response audio share the same label.
// The uuid suffix keeps labels from two requests arriving within the same
// second from colliding on disk.
type Label string

// NewLabel generates a label from the given time, e.g. "20240115_093042_a1b2c3d4".
func NewLabel(now time.Time) Label {
	return Label(now.Format("20060102_150405") + "_" + uuid.NewString()[:8])
}

// WithSuffix derives a new label, e.g. for the fun-fact path.
func (l Label) WithSuffix(suffix string) Label {
	return l + Label(suffix)
}

func (l Label) String() string {
	return string(l)
}

// Upload is a raw audio clip received from the device.
type Upload struct {
	Label Label
	Data  []byte
}

// Transcription job statuses as reported by the speech-to-text provider.
const (
	TranscriptionQueued     = "queued"
	TranscriptionProcessing = "processing"
	TranscriptionCompleted  = "completed"
	TranscriptionFailed     = "failed"
)

// TranscriptionJob is the provider-side transcription job record. It only
// lives for the duration of the poll loop; the terminal text is the only
// part that outlives it.
type TranscriptionJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// SynthesizedAudio is a response audio file addressable under its label.
type SynthesizedAudio struct {
	Label    Label
	Filename string
	Path     string
}

// ConversationResult is the outcome of one pipeline run. Text is what the
// device should display or log for the child's utterance, Reply is the
// assistant's answer. AudioFile is empty when synthesis was skipped or failed.
type ConversationResult struct {
	Text      string
	Reply     string
	HasAudio  bool
	AudioFile string
}
