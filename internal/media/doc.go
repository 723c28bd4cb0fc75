// Package media prepares recordings for the speech tools.
//
// ConvertToWAV shells out to ffmpeg to produce the 16 kHz mono PCM WAV that
// both WhisperX and pyannote consume. Inspect wraps ffprobe so the pipeline
// can reject inputs without an audio stream and record their duration.
package media
