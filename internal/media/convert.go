package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"speakerscript/internal/services"
)

// Audio parameters shared by WhisperX and pyannote.
const (
	SampleRate = 16000
	Channels   = 1
)

// ConvertToWAV converts any ffmpeg-readable source to 16 kHz mono PCM WAV.
func ConvertToWAV(ctx context.Context, ffmpegBinary, source, dest string) error {
	return Convert(ctx, services.ExecRunner(), ffmpegBinary, source, dest)
}

// Convert is ConvertToWAV with an explicit command runner.
func Convert(ctx context.Context, run services.CommandRunner, ffmpegBinary, source, dest string) error {
	source = strings.TrimSpace(source)
	dest = strings.TrimSpace(dest)
	if source == "" {
		return errors.New("convert audio: empty source path")
	}
	if dest == "" {
		return errors.New("convert audio: empty destination path")
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("convert audio: %w", err)
	}
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if err := run(ctx, ffmpegBinary, ConvertArgs(source, dest)...); err != nil {
		return fmt.Errorf("ffmpeg convert: %w", err)
	}
	return nil
}

// ConvertArgs builds the ffmpeg arguments for a WAV conversion.
func ConvertArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", fmt.Sprintf("%d", Channels),
		"-ar", fmt.Sprintf("%d", SampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
}
