package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/robopal/server/domain/entities"
	"github.com/robopal/server/repository"
)

const (
	defaultBaseURL         = "https://api.assemblyai.com/v2"
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollAttempts = 30
	defaultHTTPTimeout     = 30 * time.Second
)

// Config holds configuration for the AssemblyAI speech-to-text client.
// Required fields:
// - APIKey: Your AssemblyAI API key
// Optional fields with defaults:
// - BaseURL: API base URL (default: "https://api.assemblyai.com/v2")
// - PollInterval: delay between job status checks (default: 2s)
// - MaxPollAttempts: status checks before giving up (default: 30, ~60s)
type Config struct {
	APIKey          string
	BaseURL         string
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Client implements SpeechToText against the AssemblyAI job API: upload the
// raw audio, create a transcription job, then poll until the job reaches a
// terminal status or the attempt budget runs out.
type Client struct {
	apiKey          string
	baseURL         string
	pollInterval    time.Duration
	maxPollAttempts int
	httpClient      *http.Client
	logger          *zap.Logger
}

// Ensure Client implements the SpeechToText interface
var _ repository.SpeechToText = (*Client)(nil)

// NewClient creates a new AssemblyAI client. A missing API key is not an
// error here; requests will fail at the provider and surface as upload
// errors, matching the relay's warn-at-startup policy.
func NewClient(config Config, logger *zap.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	pollInterval := config.PollInterval
	if pollInterval == 0 {
		pollInterval = defaultPollInterval
	}

	maxPollAttempts := config.MaxPollAttempts
	if maxPollAttempts == 0 {
		maxPollAttempts = defaultMaxPollAttempts
	}

	return &Client{
		apiKey:          config.APIKey,
		baseURL:         baseURL,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
		httpClient:      &http.Client{Timeout: defaultHTTPTimeout},
		logger:          logger,
	}
}

// Upload sends raw audio bytes to the provider and returns the URL the
// transcription job should read from.
func (c *Client) Upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Audio upload rejected",
			zap.Int("statusCode", resp.StatusCode),
			zap.ByteString("response", body))
		return "", fmt.Errorf("failed to upload audio: status %d", resp.StatusCode)
	}

	var uploadResp struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	return uploadResp.UploadURL, nil
}

// CreateJob requests transcription of a previously uploaded audio URL and
// returns the job ID to poll.
func (c *Client) CreateJob(ctx context.Context, audioURL string) (string, error) {
	payload, err := json.Marshal(map[string]string{"audio_url": audioURL})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request transcription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Transcription request rejected",
			zap.Int("statusCode", resp.StatusCode),
			zap.ByteString("response", body))
		return "", fmt.Errorf("failed to request transcription: status %d", resp.StatusCode)
	}

	var job entities.TranscriptionJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return job.ID, nil
}

// GetJob fetches the current state of a transcription job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*entities.TranscriptionJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to check transcription status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to check transcription status: status %d", resp.StatusCode)
	}

	var job entities.TranscriptionJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return &job, nil
}

// Transcribe runs the full upload, create job, poll-until-done sequence.
// It blocks the caller for up to PollInterval * MaxPollAttempts.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	uploadURL, err := c.Upload(ctx, audio)
	if err != nil {
		return "", err
	}

	jobID, err := c.CreateJob(ctx, uploadURL)
	if err != nil {
		return "", err
	}

	c.logger.Info("Waiting for transcription",
		zap.String("jobID", jobID),
		zap.Int("audioSize", len(audio)))

	for attempt := 0; attempt < c.maxPollAttempts; attempt++ {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch job.Status {
		case entities.TranscriptionCompleted:
			c.logger.Info("Transcription completed",
				zap.String("jobID", jobID),
				zap.Int("attempts", attempt+1),
				zap.Int("textLength", len(job.Text)))
			return job.Text, nil
		case entities.TranscriptionFailed:
			c.logger.Warn("Transcription failed",
				zap.String("jobID", jobID),
				zap.String("providerError", job.Error))
			return "", &repository.TranscriptionError{Message: job.Error}
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transcription cancelled: %w", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}

	c.logger.Warn("Transcription poll budget exhausted",
		zap.String("jobID", jobID),
		zap.Int("attempts", c.maxPollAttempts))
	return "", repository.ErrTranscriptionTimeout
}
