package pipeline

import (
	"context"
	"log/slog"

	"speakerscript/internal/config"
	"speakerscript/internal/history"
	"speakerscript/internal/logging"
	"speakerscript/internal/services"
)

// historyRecorder mirrors one run into the history database. History is
// advisory: every failure is logged and swallowed.
type historyRecorder struct {
	store  *history.Store
	id     int64
	logger *slog.Logger
}

func (p *Pipeline) beginHistory(ctx context.Context, logger *slog.Logger, run history.Run) *historyRecorder {
	return beginHistory(ctx, p.cfg, logger, run)
}

func beginHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, run history.Run) *historyRecorder {
	rec := &historyRecorder{logger: logger}
	if cfg == nil || !cfg.History.Enabled {
		return rec
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.String("path", cfg.HistoryPath()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded"),
		)
		return rec
	}
	id, err := store.Begin(ctx, run)
	if err != nil {
		logging.WarnWithContext(logger, "failed to record run start", "history_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded"),
		)
		_ = store.Close()
		return rec
	}
	rec.store = store
	rec.id = id
	return rec
}

// finish records the outcome and closes the store. It runs even when ctx was
// cancelled so interrupted runs are marked failed.
func (r *historyRecorder) finish(ctx context.Context, result *Result, runErr error) {
	if r == nil || r.store == nil {
		return
	}
	defer func() { _ = r.store.Close() }()

	outcome := history.Outcome{Status: history.StatusSucceeded}
	if result != nil {
		outcome.Output = result.Output
		outcome.Blocks = len(result.Blocks)
		outcome.Utterances = result.Utterances
		outcome.AudioSeconds = result.AudioSeconds
	}
	if runErr != nil {
		outcome.Status = history.StatusFailed
		outcome.FailureKind = services.FailureKind(runErr)
		outcome.ErrorMessage = runErr.Error()
	}
	if err := r.store.Finish(context.WithoutCancel(ctx), r.id, outcome); err != nil {
		logging.WarnWithContext(r.logger, "failed to record run outcome", "history_finish_failed",
			logging.Error(err),
			logging.Int64("history_id", r.id),
		)
	}
}
