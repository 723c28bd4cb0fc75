package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"speakerscript/internal/align"
	"speakerscript/internal/config"
	"speakerscript/internal/diarization"
	"speakerscript/internal/history"
	"speakerscript/internal/logging"
	"speakerscript/internal/services"
	"speakerscript/internal/transcription"
)

// SpeakerInfo summarizes one diarization label.
type SpeakerInfo struct {
	Label    string             `json:"label"`
	Index    align.SpeakerIndex `json:"index"`
	Seconds  float64            `json:"seconds"`
	Segments int                `json:"segments"`
}

// Align assembles a transcript from existing diarization and transcription
// files without running any external tool.
func Align(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts AlignOptions) (result *Result, err error) {
	if cfg == nil {
		return nil, errors.New("align requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "align")

	speakers, err := normalizeSpeakers(opts.Speakers)
	if err != nil {
		return nil, err
	}
	settings, err := resolveSettings(cfg, opts.Format, opts.SpeakerOrder, opts.NoOverlap)
	if err != nil {
		return nil, err
	}
	output := strings.TrimSpace(opts.Output)
	if output != "" {
		if output, err = config.ExpandPath(output); err != nil {
			return nil, services.Wrap(services.ErrValidation, "", "output", "", err)
		}
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithStage(ctx, StageAssemble)
	logger = logging.WithContext(ctx, logger)

	result = &Result{RunID: runID, Output: output, Format: settings.format}
	recorder := beginHistory(ctx, cfg, logger, history.Run{
		RunID:    runID,
		Command:  "align",
		Input:    opts.TranscriptionPath,
		Speakers: speakers,
		Output:   output,
	})
	defer func() { recorder.finish(ctx, result, err) }()

	segments, err := loadDiarization(opts.DiarizationPath)
	if err != nil {
		return result, err
	}
	utterances, err := loadTranscription(opts.TranscriptionPath)
	if err != nil {
		return result, err
	}

	started := time.Now()
	blocks, err := assemble(ctx, logger, segments, utterances, speakers, settings)
	if err != nil {
		return result, err
	}
	result.Blocks = blocks
	result.Utterances = countUtterances(blocks)
	if result.Transcript, err = writeTranscript(output, blocks, settings.format); err != nil {
		return result, services.Wrap(services.ErrTransient, StageAssemble, "write", output, err)
	}
	result.Stages = []StageReport{{Name: StageAssemble, Output: output, Elapsed: time.Since(started)}}
	return result, nil
}

// InspectSpeakers lists the distinct labels in a diarization file with the
// index each would receive under order.
func InspectSpeakers(path, order string) ([]SpeakerInfo, error) {
	parsed, err := align.ParseOrder(order)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "", "speaker order", "", err)
	}
	segments, err := loadDiarization(path)
	if err != nil {
		return nil, err
	}
	converted := diarization.ToAlign(segments)
	speakerMap, err := align.NewSpeakerMap(converted, parsed)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "", "speakers", path, err)
	}
	talk := align.TalkTime(converted)
	counts := make(map[string]int)
	for _, seg := range converted {
		counts[seg.Speaker]++
	}
	infos := make([]SpeakerInfo, 0, speakerMap.Len())
	for _, entry := range speakerMap.Entries() {
		infos = append(infos, SpeakerInfo{
			Label:    entry.Label,
			Index:    entry.Index,
			Seconds:  talk[entry.Label],
			Segments: counts[entry.Label],
		})
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Index < infos[j].Index })
	return infos, nil
}

func assemble(ctx context.Context, logger *slog.Logger, segments []diarization.Segment, utterances []transcription.Segment, speakers []string, settings alignSettings) ([]align.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assembler := align.NewAssembler(align.Options{
		Order:     settings.order,
		NoOverlap: settings.fallback,
		Logger:    logger,
	})
	blocks, err := assembler.Assemble(diarization.ToAlign(segments), transcription.ToAlign(utterances), speakers)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, StageAssemble, "assemble", "", err)
	}
	logger.Info("transcript assembled",
		logging.String(logging.FieldEventType, "assemble_complete"),
		logging.Int("blocks", len(blocks)),
		logging.String("order", settings.order.String()),
		logging.String("no_overlap", settings.fallback.String()),
	)
	return blocks, nil
}

func loadDiarization(path string) ([]diarization.Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrValidation, "", "diarization", "diarization file is required", nil)
	}
	segments, err := diarization.Load(path)
	if err != nil {
		return nil, classifyLoad("diarization", path, err)
	}
	return segments, nil
}

func loadTranscription(path string) ([]transcription.Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrValidation, "", "transcription", "transcription file is required", nil)
	}
	segments, err := transcription.Load(path)
	if err != nil {
		return nil, classifyLoad("transcription", path, err)
	}
	return segments, nil
}

func classifyLoad(kind, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "", kind, path, err)
	}
	return services.Wrap(services.ErrValidation, "", kind, path, err)
}
