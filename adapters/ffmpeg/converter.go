package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"github.com/robopal/server/repository"
)

// Device playback format: 16 kHz mono signed 16-bit, matching the I2S
// configuration on the ESP32 side.
const (
	targetSampleRate = 16000
	targetChannels   = 1
	targetSampleFmt  = "s16"
)

// Converter re-encodes synthesized audio by invoking the ffmpeg binary.
type Converter struct {
	binary string
	logger *zap.Logger
}

// Ensure Converter implements the AudioConverter interface
var _ repository.AudioConverter = (*Converter)(nil)

// NewConverter creates an ffmpeg-backed audio converter.
func NewConverter(logger *zap.Logger) *Converter {
	return &Converter{binary: "ffmpeg", logger: logger}
}

// Available reports whether the ffmpeg binary can be found on PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Convert re-encodes src into dst at the device playback format.
func (c *Converter) Convert(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, c.binary,
		"-y", "-i", src,
		"-ar", strconv.Itoa(targetSampleRate),
		"-ac", strconv.Itoa(targetChannels),
		"-sample_fmt", targetSampleFmt,
		dst,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.logger.Warn("ffmpeg conversion failed",
			zap.String("src", src),
			zap.Error(err),
			zap.String("stderr", stderr.String()))
		return fmt.Errorf("ffmpeg conversion failed: %w", err)
	}

	c.logger.Info("Audio converted",
		zap.String("dst", dst),
		zap.Int("sampleRate", targetSampleRate))
	return nil
}

// Passthrough is the no-op converter used when ffmpeg is not installed. It
// moves the provider audio into the final slot unchanged; the sample-rate
// mismatch on the device is accepted.
type Passthrough struct {
	logger *zap.Logger
}

// Ensure Passthrough implements the AudioConverter interface
var _ repository.AudioConverter = (*Passthrough)(nil)

// NewPassthrough creates the no-op converter.
func NewPassthrough(logger *zap.Logger) *Passthrough {
	return &Passthrough{logger: logger}
}

// Convert renames src into dst without re-encoding.
func (p *Passthrough) Convert(ctx context.Context, src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move audio into place: %w", err)
	}
	p.logger.Warn("Serving provider audio without resampling; install ffmpeg for device-rate output",
		zap.String("dst", dst))
	return nil
}
