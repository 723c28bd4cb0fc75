// Package align attributes transcribed utterances to diarized speakers and
// groups them into speaker turns.
//
// The package is pure: it reads two fully materialized interval lists (the
// diarizer's speaker turns and the transcriber's utterances) and derives a
// sequence of Blocks, one per speaker turn. Nothing here performs I/O beyond
// writing rendered output to a caller-supplied io.Writer, so independent
// recordings can be aligned concurrently without coordination.
//
// Speaker attribution is an overlap vote. For each utterance window the
// Resolver sums, per diarization label, the seconds of overlap between the
// window and every segment carrying that label; the label with the largest
// total wins. Labels within overlapEpsilon of the maximum are tied and the
// lowest SpeakerIndex wins. A window with no overlap at all yields
// ErrNoOverlap, which the Assembler either returns or resolves through the
// configured Fallback.
//
// Labels are mapped to SpeakerIndex values once per run by a SpeakerMap. The
// default OrderLabelOrdinal keeps the diarizer's positional contract (the
// digits in "SPEAKER_01" select the second display name); OrderFirstAppearance
// numbers speakers by when they first talk.
package align
