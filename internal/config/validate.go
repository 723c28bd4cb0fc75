package config

import (
	"errors"
	"fmt"
	"strings"

	"speakerscript/internal/language"
)

var (
	validVADMethods    = []string{"silero", "pyannote"}
	validSpeakerOrders = []string{"label", "ordinal", "appearance", "first-appearance"}
	validNoOverlap     = []string{"fail", "error", "nearest", "previous", "last"}
	validFormats       = []string{"text", "timestamped", "json"}
	validLogFormats    = []string{"console", "json"}
	validLogLevels     = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateAlign(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if err := oneOf("transcription.vad_method", c.Transcription.VADMethod, validVADMethods); err != nil {
		return err
	}
	if c.Transcription.VADMethod == "pyannote" && c.Diarization.HFToken == "" {
		return errors.New("transcription.vad_method = \"pyannote\" requires diarization.hf_token (or HUGGINGFACE_TOKEN)")
	}
	if lang := c.Transcription.Language; lang != "" && language.ToISO2(lang) == "" {
		return fmt.Errorf("transcription.language: unrecognized language %q", lang)
	}
	return nil
}

func (c *Config) validateAlign() error {
	if err := oneOf("align.speaker_order", c.Align.SpeakerOrder, validSpeakerOrders); err != nil {
		return err
	}
	if err := oneOf("align.no_overlap", c.Align.NoOverlap, validNoOverlap); err != nil {
		return err
	}
	return oneOf("align.format", c.Align.Format, validFormats)
}

func (c *Config) validateLogging() error {
	if err := oneOf("logging.format", c.Logging.Format, validLogFormats); err != nil {
		return err
	}
	return oneOf("logging.level", c.Logging.Level, validLogLevels)
}

// RequireHFToken reports an actionable error when no Hugging Face token is configured.
func (c *Config) RequireHFToken() error {
	if strings.TrimSpace(c.Diarization.HFToken) != "" {
		return nil
	}
	path, err := DefaultConfigPath()
	if err != nil {
		path = defaultConfigRelativePath
	}
	return fmt.Errorf("diarization.hf_token is required. Set HUGGINGFACE_TOKEN (in the environment or a .env file) or edit %s (create with 'speakerscript config init')", path)
}

func oneOf(field, value string, allowed []string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("%s: unsupported value %q (expected one of %s)", field, value, strings.Join(allowed, ", "))
}
