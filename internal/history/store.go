package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const runColumns = "id, run_id, command, input_path, speakers_json, language, output_path, status, failure_kind, error_message, blocks, utterances, audio_seconds, started_at, finished_at"

// timeLayout keeps a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin records a new run in the running state and returns its row id.
func (s *Store) Begin(ctx context.Context, run Run) (int64, error) {
	if strings.TrimSpace(run.RunID) == "" {
		return 0, errors.New("history: run id required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	speakers := run.Speakers
	if speakers == nil {
		speakers = []string{}
	}
	speakersJSON, err := json.Marshal(speakers)
	if err != nil {
		return 0, fmt.Errorf("marshal speakers: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            run_id, command, input_path, speakers_json, language, output_path,
            status, audio_seconds, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Command,
		nullableString(run.Input),
		string(speakersJSON),
		nullableString(run.Language),
		nullableString(run.Output),
		StatusRunning,
		run.AudioSeconds,
		run.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Finish stores the outcome of a run started with Begin.
func (s *Store) Finish(ctx context.Context, id int64, outcome Outcome) error {
	switch outcome.Status {
	case StatusSucceeded, StatusFailed:
	default:
		return fmt.Errorf("history: invalid final status %q", outcome.Status)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs
         SET status = ?, output_path = COALESCE(?, output_path), blocks = ?, utterances = ?,
             audio_seconds = CASE WHEN ? > 0 THEN ? ELSE audio_seconds END,
             failure_kind = ?, error_message = ?, finished_at = ?
         WHERE id = ?`,
		outcome.Status,
		nullableString(outcome.Output),
		outcome.Blocks,
		outcome.Utterances,
		outcome.AudioSeconds,
		outcome.AudioSeconds,
		nullableString(outcome.FailureKind),
		nullableString(outcome.ErrorMessage),
		time.Now().UTC().Format(timeLayout),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: no run with id %d", id)
	}
	return nil
}

// Get fetches a run by row id. It returns nil when the run does not exist.
func (s *Store) Get(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		input        sql.NullString
		speakersJSON string
		language     sql.NullString
		output       sql.NullString
		status       string
		failureKind  sql.NullString
		errorMessage sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&run.Command,
		&input,
		&speakersJSON,
		&language,
		&output,
		&status,
		&failureKind,
		&errorMessage,
		&run.Blocks,
		&run.Utterances,
		&run.AudioSeconds,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Input = input.String
	run.Language = language.String
	run.Output = output.String
	run.Status = Status(status)
	run.FailureKind = failureKind.String
	run.ErrorMessage = errorMessage.String
	if err := json.Unmarshal([]byte(speakersJSON), &run.Speakers); err != nil {
		return nil, fmt.Errorf("decode speakers: %w", err)
	}
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return &run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t
	}
	return time.Time{}
}
