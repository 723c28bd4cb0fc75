// Package pipeline turns a recording and an ordered list of speaker names
// into a speaker-attributed transcript.
//
// Run converts the input to WAV, diarizes it with pyannote, transcribes it
// with WhisperX, and assembles the result. Every stage caches its output in a
// per-recording work directory, so re-running with a different speaker order
// only repeats the assembly. A file lock keeps two runs off the same work
// directory, each run gets a UUID stamped into its log lines, and outcomes are
// recorded in the history store.
//
// Align runs only the assembly over existing diarization and transcription
// files, without any external tool.
package pipeline
