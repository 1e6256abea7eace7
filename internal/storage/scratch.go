package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/robopal/server/domain/entities"
	"github.com/robopal/server/repository"
)

// ErrNotFound is returned when a requested response audio file does not exist.
var ErrNotFound = errors.New("audio file not found")

// Scratch is the local filesystem store for debug copies of device uploads
// and for synthesized response audio awaiting retrieval. Files accumulate;
// there is no retention policy.
type Scratch struct {
	micDir      string
	responseDir string
	converter   repository.AudioConverter
	logger      *zap.Logger
}

// NewScratch creates the store and its directories.
func NewScratch(micDir, responseDir string, converter repository.AudioConverter, logger *zap.Logger) (*Scratch, error) {
	if err := os.MkdirAll(micDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create mic input directory: %w", err)
	}
	if err := os.MkdirAll(responseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio response directory: %w", err)
	}

	return &Scratch{
		micDir:      micDir,
		responseDir: responseDir,
		converter:   converter,
		logger:      logger,
	}, nil
}

// SaveUpload writes the raw device upload for diagnostic replay.
func (s *Scratch) SaveUpload(upload entities.Upload) (string, error) {
	path := filepath.Join(s.micDir, "mic_input_"+upload.Label.String()+".wav")
	if err := os.WriteFile(path, upload.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	s.logger.Info("Audio saved",
		zap.String("path", path),
		zap.Int("size", len(upload.Data)))
	return path, nil
}

// StoreResponseAudio persists synthesized audio under its label. The raw
// provider output is written to "<label>_original.wav" first, then converted
// into "<label>.wav"; when conversion fails the original is renamed into the
// final slot unchanged. Either way exactly one file remains per label.
func (s *Scratch) StoreResponseAudio(ctx context.Context, label entities.Label, audio []byte) (*entities.SynthesizedAudio, error) {
	originalPath := filepath.Join(s.responseDir, label.String()+"_original.wav")
	finalName := label.String() + ".wav"
	finalPath := filepath.Join(s.responseDir, finalName)

	if err := os.WriteFile(originalPath, audio, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save synthesized audio: %w", err)
	}

	if err := s.converter.Convert(ctx, originalPath, finalPath); err != nil {
		s.logger.Warn("Audio conversion failed, serving provider output unchanged",
			zap.String("label", label.String()),
			zap.Error(err))
		if renameErr := os.Rename(originalPath, finalPath); renameErr != nil {
			return nil, fmt.Errorf("failed to store response audio: %w", renameErr)
		}
	} else if err := os.Remove(originalPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove original audio file",
			zap.String("path", originalPath),
			zap.Error(err))
	}

	return &entities.SynthesizedAudio{
		Label:    label,
		Filename: finalName,
		Path:     finalPath,
	}, nil
}

// ResponseAudio returns the contents of a stored response file by its
// public filename. Names containing path separators are rejected.
func (s *Scratch) ResponseAudio(filename string) ([]byte, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.responseDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	return data, nil
}
