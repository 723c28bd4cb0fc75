package config

import (
	"fmt"
	"os"
	"strings"

	"speakerscript/internal/language"
)

// hfTokenEnvVars are consulted in order when diarization.hf_token is unset.
var hfTokenEnvVars = []string{"HUGGINGFACE_TOKEN", "HF_TOKEN", "HUGGING_FACE_HUB_TOKEN"}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeDiarization()
	c.normalizeAlign()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	if value, ok := os.LookupEnv("SPEAKERSCRIPT_LANGUAGE"); ok && strings.TrimSpace(value) != "" {
		c.Transcription.Language = value
	}
	raw := strings.TrimSpace(c.Transcription.Language)
	if code := language.ToISO2(raw); code != "" {
		c.Transcription.Language = code
	} else {
		c.Transcription.Language = strings.ToLower(raw)
	}
	c.Transcription.VADMethod = strings.ToLower(strings.TrimSpace(c.Transcription.VADMethod))
	if c.Transcription.VADMethod == "" {
		c.Transcription.VADMethod = defaultVADMethod
	}
}

func (c *Config) normalizeDiarization() {
	c.Diarization.HFToken = strings.TrimSpace(c.Diarization.HFToken)
	if c.Diarization.HFToken == "" {
		for _, key := range hfTokenEnvVars {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.Diarization.HFToken = strings.TrimSpace(value)
				break
			}
		}
	}
	c.Diarization.Model = strings.TrimSpace(c.Diarization.Model)
	if c.Diarization.Model == "" {
		c.Diarization.Model = defaultDiarizationModel
	}
}

func (c *Config) normalizeAlign() {
	c.Align.SpeakerOrder = strings.ToLower(strings.TrimSpace(c.Align.SpeakerOrder))
	if c.Align.SpeakerOrder == "" {
		c.Align.SpeakerOrder = defaultSpeakerOrder
	}
	c.Align.NoOverlap = strings.ToLower(strings.TrimSpace(c.Align.NoOverlap))
	if c.Align.NoOverlap == "" {
		c.Align.NoOverlap = defaultNoOverlap
	}
	c.Align.Format = strings.ToLower(strings.TrimSpace(c.Align.Format))
	if c.Align.Format == "" {
		c.Align.Format = defaultFormat
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
