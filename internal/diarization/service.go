package diarization

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"speakerscript/internal/services"
)

//go:embed diarize.py
var diarizeScript string

// ScriptName is the file the embedded pyannote script is written to.
const ScriptName = "diarize.py"

const (
	DefaultModel = "pyannote/speaker-diarization-3.1"
	UVXCommand   = "uvx"
	cudaIndexURL = "https://download.pytorch.org/whl/cu128"
	pypiIndexURL = "https://pypi.org/simple"
)

// ErrGatedModel reports that the Hugging Face token lacks access to the pyannote models.
var ErrGatedModel = errors.New("hugging face model access denied")

// Config captures runtime settings for pyannote.
type Config struct {
	HFToken     string
	Model       string
	CUDAEnabled bool
}

// Service runs pyannote speaker diarization through uvx.
type Service struct {
	cfg           Config
	uvxBinary     string
	commandRunner services.CommandRunner
}

// NewService creates a diarization service.
func NewService(cfg Config, uvxBinary string) *Service {
	if strings.TrimSpace(uvxBinary) == "" {
		uvxBinary = UVXCommand
	}
	return &Service{cfg: cfg, uvxBinary: uvxBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	s.commandRunner = runner
}

// Model returns the configured pipeline name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	env := []string{"HF_TOKEN=" + s.cfg.HFToken}
	// Torch 2.6 changed torch.load default to weights_only=true, breaking pyannote checkpoints.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	return services.ExecRunner(env...)(ctx, name, args...)
}

// Diarize runs pyannote on a 16 kHz mono WAV and writes the segment list to
// outputPath. numSpeakers > 0 pins the speaker count; 0 lets pyannote decide.
func (s *Service) Diarize(ctx context.Context, wavPath string, numSpeakers int, outputPath string) ([]Segment, error) {
	if strings.TrimSpace(wavPath) == "" {
		return nil, errors.New("diarize: audio path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, errors.New("diarize: output path required")
	}
	if strings.TrimSpace(s.cfg.HFToken) == "" {
		return nil, errors.New("diarize: hugging face token required")
	}
	if numSpeakers < 0 {
		return nil, fmt.Errorf("diarize: invalid speaker count %d", numSpeakers)
	}

	workDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("diarize: ensure work dir: %w", err)
	}
	scriptPath := filepath.Join(workDir, ScriptName)
	if err := os.WriteFile(scriptPath, []byte(diarizeScript), 0o644); err != nil {
		return nil, fmt.Errorf("write diarization script: %w", err)
	}

	// A stale result must not be mistaken for this run's output.
	_ = os.Remove(outputPath)

	if err := s.run(ctx, s.uvxBinary, s.buildArgs(scriptPath, wavPath, numSpeakers, outputPath)...); err != nil {
		return nil, classifyFailure(err)
	}

	segments, err := Load(outputPath)
	if err != nil {
		return nil, fmt.Errorf("diarize: read result: %w", err)
	}
	return segments, nil
}

func (s *Service) buildArgs(scriptPath, wavPath string, numSpeakers int, outputPath string) []string {
	args := []string{
		"--quiet",
		"--with", "pyannote.audio",
		"--with", "torchaudio",
		"--with", "soundfile",
		"--with", "omegaconf",
	}
	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", cudaIndexURL,
			"--extra-index-url", pypiIndexURL,
		)
	}
	args = append(args, "python", scriptPath,
		"--audio", wavPath,
		"--output", outputPath,
		"--model", s.Model(),
		"--num-speakers", strconv.Itoa(numSpeakers),
	)
	return args
}

func classifyFailure(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "GatedRepoError") || strings.Contains(msg, "401") || strings.Contains(msg, "403 Client Error") {
		return fmt.Errorf("pyannote: %w. Visit https://hf.co/pyannote/speaker-diarization-3.1 and https://hf.co/pyannote/segmentation-3.0 to accept the model terms, then retry: %w", ErrGatedModel, err)
	}
	return fmt.Errorf("pyannote: %w", err)
}
