// Package diarization produces and reads "who spoke when" segment lists.
//
// Service runs pyannote through uvx with an embedded Python script and writes
// the result as a JSON array of {"start", "end", "speaker"} objects, the same
// layout Load and Decode accept. ToAlign converts segments for the speaker
// resolver.
package diarization
