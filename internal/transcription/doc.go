// Package transcription runs WhisperX and reads timestamped utterance lists.
//
// Load and Decode accept either a bare JSON array of segments or a WhisperX
// style object with a "segments" key. Extra per-segment fields (words,
// tokens, ids) are ignored.
package transcription
