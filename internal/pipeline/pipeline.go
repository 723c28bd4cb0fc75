package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"speakerscript/internal/align"
	"speakerscript/internal/config"
	"speakerscript/internal/diarization"
	"speakerscript/internal/fileutil"
	"speakerscript/internal/history"
	"speakerscript/internal/language"
	"speakerscript/internal/logging"
	"speakerscript/internal/media"
	"speakerscript/internal/services"
	"speakerscript/internal/transcription"
)

// Diarizer produces speaker turns for a WAV file.
type Diarizer interface {
	Diarize(ctx context.Context, wavPath string, numSpeakers int, outputPath string) ([]diarization.Segment, error)
}

// Transcriber produces timestamped utterances for a WAV file.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, outputDir, language string) (transcription.Result, error)
}

// Converter writes a 16 kHz mono WAV rendition of source to dest.
type Converter func(ctx context.Context, source, dest string) error

// Prober inspects the input recording.
type Prober func(ctx context.Context, path string) (media.ProbeResult, error)

// Pipeline wires the stage implementations together.
type Pipeline struct {
	cfg         *config.Config
	base        *slog.Logger
	logger      *slog.Logger
	convert     Converter
	probe       Prober
	diarizer    Diarizer
	transcriber Transcriber
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithConverter replaces the ffmpeg conversion step.
func WithConverter(convert Converter) Option {
	return func(p *Pipeline) { p.convert = convert }
}

// WithProber replaces the ffprobe inspection. A nil prober skips inspection.
func WithProber(probe Prober) Option {
	return func(p *Pipeline) { p.probe = probe }
}

// WithDiarizer replaces the pyannote service.
func WithDiarizer(d Diarizer) Option {
	return func(p *Pipeline) { p.diarizer = d }
}

// WithTranscriber replaces the WhisperX service.
func WithTranscriber(t Transcriber) Option {
	return func(p *Pipeline) { p.transcriber = t }
}

// New builds a pipeline backed by ffmpeg, ffprobe, pyannote, and WhisperX
// unless options replace them.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		base:   logger,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		convert: func(ctx context.Context, source, dest string) error {
			return media.ConvertToWAV(ctx, cfg.FFmpegBinary(), source, dest)
		},
		probe: func(ctx context.Context, path string) (media.ProbeResult, error) {
			return media.Inspect(ctx, cfg.FFprobeBinary(), path)
		},
		diarizer: diarization.NewService(diarization.Config{
			HFToken:     cfg.Diarization.HFToken,
			Model:       cfg.Diarization.Model,
			CUDAEnabled: cfg.Diarization.CUDAEnabled,
		}, cfg.UVXBinary()),
		transcriber: transcription.NewService(transcription.Config{
			Model:       cfg.Transcription.Model,
			CUDAEnabled: cfg.Transcription.CUDAEnabled,
			VADMethod:   cfg.Transcription.VADMethod,
			HFToken:     cfg.Diarization.HFToken,
		}, cfg.UVXBinary()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the full pipeline with default services.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	p, err := New(cfg, nil)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, opts)
}

// Run converts, diarizes, transcribes, and assembles one recording.
func (p *Pipeline) Run(ctx context.Context, opts Options) (result *Result, err error) {
	input := strings.TrimSpace(opts.Input)
	if input == "" {
		return nil, services.Wrap(services.ErrValidation, "", "input", "input file is required", nil)
	}
	if input, err = config.ExpandPath(input); err != nil {
		return nil, services.Wrap(services.ErrValidation, "", "input", "", err)
	}
	if info, statErr := os.Stat(input); statErr != nil {
		return nil, services.Wrap(services.ErrNotFound, "", "input", input, statErr)
	} else if info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "", "input", input+" is a directory", nil)
	}
	speakers, err := normalizeSpeakers(opts.Speakers)
	if err != nil {
		return nil, err
	}
	settings, err := resolveSettings(p.cfg, opts.Format, opts.SpeakerOrder, opts.NoOverlap)
	if err != nil {
		return nil, err
	}
	lang := p.cfg.Transcription.Language
	if requested := strings.TrimSpace(opts.Language); requested != "" {
		if lang = language.ToISO2(requested); lang == "" {
			return nil, services.Wrap(services.ErrValidation, "", "language", fmt.Sprintf("unrecognized language %q", requested), nil)
		}
	}

	workDir := WorkDir(p.cfg, input)
	lock, err := acquireLock(workDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			p.logger.Warn("failed to release work dir lock", logging.Error(unlockErr))
		}
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithRecording(ctx, RecordingName(input))

	logger, closeLog := p.runLogger(ctx, workDir, runID)
	defer closeLog()

	output := strings.TrimSpace(opts.Output)
	if output == "" {
		output = filepath.Join(workDir, TranscriptBase+config.TranscriptExtension(string(settings.format)))
	} else if output, err = config.ExpandPath(output); err != nil {
		return nil, services.Wrap(services.ErrValidation, "", "output", "", err)
	}

	result = &Result{RunID: runID, WorkDir: workDir, Output: output, Format: settings.format}
	recorder := p.beginHistory(ctx, logger, history.Run{
		RunID:    runID,
		Command:  "run",
		Input:    input,
		Speakers: speakers,
		Language: lang,
		Output:   output,
	})
	defer func() { recorder.finish(ctx, result, err) }()

	logger.Info("pipeline started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input", input),
		logging.String("work_dir", workDir),
		logging.Int("speakers", len(speakers)),
		logging.String("language", lang),
		logging.Bool("force", opts.Force),
	)

	if err = p.inspect(ctx, logger, input, result); err != nil {
		return result, err
	}

	wavPath := filepath.Join(workDir, AudioFile)
	report, err := runStage(ctx, logger, StageConvert, wavPath, opts.Force, nil, func(ctx context.Context) error {
		return p.convertAtomic(ctx, input, wavPath)
	})
	result.Stages = append(result.Stages, report)
	if err != nil {
		return result, services.Wrap(services.ErrExternalTool, StageConvert, "ffmpeg", "", err)
	}

	diarizationPath := filepath.Join(workDir, DiarizationFile)
	var segments []diarization.Segment
	report, err = runStage(ctx, logger, StageDiarize, diarizationPath, opts.Force,
		func() error {
			var loadErr error
			segments, loadErr = diarization.Load(diarizationPath)
			return loadErr
		},
		func(ctx context.Context) error {
			if tokenErr := p.cfg.RequireHFToken(); tokenErr != nil {
				return services.Wrap(services.ErrConfiguration, StageDiarize, "hf token", "", tokenErr)
			}
			var diarizeErr error
			segments, diarizeErr = p.diarizer.Diarize(ctx, wavPath, len(speakers), diarizationPath)
			return diarizeErr
		})
	result.Stages = append(result.Stages, report)
	if err != nil {
		return result, wrapStage(StageDiarize, "pyannote", err)
	}
	if labels := len(diarization.Labels(segments)); labels != len(speakers) {
		logging.WarnWithContext(logger, "diarization speaker count differs from the names given", "speaker_count_mismatch",
			logging.Int("labels", labels),
			logging.Int("names", len(speakers)),
			logging.String(logging.FieldErrorHint, "re-run with --force if the speaker list changed"),
			logging.String(logging.FieldImpact, "utterances may resolve to a speaker without a name"),
		)
	}

	transcriptionPath := filepath.Join(workDir, TranscriptionFile)
	var utterances []transcription.Segment
	report, err = runStage(ctx, logger, StageTranscribe, transcriptionPath, opts.Force,
		func() error {
			var loadErr error
			utterances, loadErr = transcription.Load(transcriptionPath)
			return loadErr
		},
		func(ctx context.Context) error {
			res, transcribeErr := p.transcriber.Transcribe(ctx, wavPath, filepath.Join(workDir, WhisperXDir), lang)
			if transcribeErr != nil {
				return transcribeErr
			}
			utterances = res.Segments
			return transcription.Write(transcriptionPath, utterances)
		})
	result.Stages = append(result.Stages, report)
	if err != nil {
		return result, wrapStage(StageTranscribe, "whisperx", err)
	}

	started := time.Now()
	stageCtx := services.WithStage(ctx, StageAssemble)
	blocks, err := assemble(stageCtx, logger, segments, utterances, speakers, settings)
	if err != nil {
		return result, err
	}
	result.Blocks = blocks
	result.Utterances = countUtterances(blocks)
	if result.Transcript, err = writeTranscript(output, blocks, settings.format); err != nil {
		return result, services.Wrap(services.ErrTransient, StageAssemble, "write", output, err)
	}
	result.Stages = append(result.Stages, StageReport{Name: StageAssemble, Output: output, Elapsed: time.Since(started)})

	logger.Info("pipeline complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("output", output),
		logging.Int("blocks", len(blocks)),
		logging.Int("utterances", result.Utterances),
	)
	return result, nil
}

// inspect rejects inputs without audio and records their duration. ffprobe is
// optional; failures to run it are logged and ignored.
func (p *Pipeline) inspect(ctx context.Context, logger *slog.Logger, input string, result *Result) error {
	if p.probe == nil {
		return nil
	}
	probe, err := p.probe(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Debug("ffprobe inspection skipped", logging.Error(err))
		return nil
	}
	if probe.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, StageConvert, "probe", input+" has no audio stream", nil)
	}
	result.AudioSeconds = probe.DurationSeconds()
	return nil
}

// convertAtomic writes ffmpeg output beside the target and renames it so an
// interrupted conversion never leaves a cacheable audio file.
func (p *Pipeline) convertAtomic(ctx context.Context, source, dest string) error {
	partial := strings.TrimSuffix(dest, filepath.Ext(dest)) + ".partial" + filepath.Ext(dest)
	_ = os.Remove(partial)
	if err := p.convert(ctx, source, partial); err != nil {
		_ = os.Remove(partial)
		return err
	}
	if !fileutil.NonEmpty(partial) {
		return fmt.Errorf("ffmpeg produced no audio at %s", partial)
	}
	return os.Rename(partial, dest)
}

func (p *Pipeline) runLogger(ctx context.Context, workDir, runID string) (*slog.Logger, func()) {
	logPath := filepath.Join(workDir, LogDir, runID+".log")
	handler, closer, err := logging.NewFileHandler(logPath)
	if err != nil {
		p.logger.Warn("run log unavailable", logging.Error(err), logging.String("path", logPath))
		return logging.WithContext(ctx, p.logger), func() {}
	}
	logger := logging.NewComponentLogger(logging.TeeLogger(p.base, handler), "pipeline")
	return logging.WithContext(ctx, logger), func() { _ = closer.Close() }
}

// runStage executes run unless output is already cached. load reads a cached
// output; a cache that fails to load is discarded and the stage re-runs.
func runStage(ctx context.Context, logger *slog.Logger, name, output string, force bool, load func() error, run func(context.Context) error) (StageReport, error) {
	report := StageReport{Name: name, Output: output}
	ctx = services.WithStage(ctx, name)
	stageLogger := logger.With(logging.String(logging.FieldStage, name))

	if !force && fileutil.NonEmpty(output) {
		if load == nil {
			report.Cached = true
		} else if err := load(); err == nil {
			report.Cached = true
		} else {
			logging.WarnWithContext(stageLogger, "cached output unreadable, re-running stage", "stage_cache_invalid",
				logging.String("path", output),
				logging.Error(err),
				logging.String(logging.FieldImpact, "stage runs again"),
			)
		}
		if report.Cached {
			stageLogger.Info("stage skipped, using cached output",
				logging.String(logging.FieldEventType, "stage_cached"),
				logging.String("path", output),
			)
			return report, nil
		}
	}

	started := time.Now()
	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	if err := run(ctx); err != nil {
		report.Elapsed = time.Since(started)
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failed"),
			logging.Duration("elapsed", report.Elapsed),
			logging.Error(err),
		)
		return report, err
	}
	report.Elapsed = time.Since(started)
	stageLogger.Info("stage complete",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", report.Elapsed),
		logging.String("path", output),
	)
	return report, nil
}

// wrapStage tags external tool failures unless a more specific marker is already present.
func wrapStage(stage, tool string, err error) error {
	for _, marker := range []error{services.ErrConfiguration, services.ErrValidation, services.ErrBusy, services.ErrNotFound} {
		if errors.Is(err, marker) {
			return err
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return services.Wrap(services.ErrExternalTool, stage, tool, "", err)
}

func writeTranscript(path string, blocks []align.Block, format align.Format) (string, error) {
	var buf bytes.Buffer
	if err := align.Render(&buf, blocks, format); err != nil {
		return "", err
	}
	rendered := buf.String()
	if path == "" {
		return rendered, nil
	}
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, werr := io.WriteString(w, rendered)
		return werr
	})
	return rendered, err
}

func countUtterances(blocks []align.Block) int {
	n := 0
	for _, b := range blocks {
		n += len(b.Lines)
	}
	return n
}
