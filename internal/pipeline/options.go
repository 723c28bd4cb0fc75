package pipeline

import (
	"time"

	"speakerscript/internal/align"
)

// Intermediate file names inside a recording's work directory.
const (
	AudioFile         = "audio.wav"
	DiarizationFile   = "diarization.json"
	TranscriptionFile = "transcription.json"
	TranscriptBase    = "transcript"
	WhisperXDir       = "whisperx"
	LockFile          = ".lock"
	LogDir            = "logs"
)

// Stage names used in logs, errors, and reports.
const (
	StageConvert    = "convert"
	StageDiarize    = "diarize"
	StageTranscribe = "transcribe"
	StageAssemble   = "assemble"
)

// Options configures a full pipeline run. Empty string fields fall back to
// the configuration.
type Options struct {
	Input        string
	Language     string
	Speakers     []string
	Output       string
	Force        bool
	Format       string
	SpeakerOrder string
	NoOverlap    string
}

// AlignOptions configures an assembly over existing files.
type AlignOptions struct {
	DiarizationPath   string
	TranscriptionPath string
	Speakers          []string
	// Output is optional; when empty nothing is written to disk.
	Output       string
	Format       string
	SpeakerOrder string
	NoOverlap    string
}

// StageReport describes one executed or cached stage.
type StageReport struct {
	Name    string
	Output  string
	Cached  bool
	Elapsed time.Duration
}

// Result describes a finished run.
type Result struct {
	RunID        string
	WorkDir      string
	Output       string
	Format       align.Format
	Blocks       []align.Block
	Transcript   string
	Stages       []StageReport
	AudioSeconds float64
	Utterances   int
}
