package align

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLabel reports a diarization label with no extractable ordinal.
	ErrMalformedLabel = errors.New("malformed speaker label")
	// ErrNoOverlap reports an utterance window that no diarization segment overlaps.
	ErrNoOverlap = errors.New("no diarization overlap")
	// ErrSpeakerIndexOutOfRange reports a resolved speaker with no display name.
	ErrSpeakerIndexOutOfRange = errors.New("speaker index out of range")
	// ErrDuplicateOrdinal reports two distinct labels that carry the same ordinal.
	ErrDuplicateOrdinal = errors.New("duplicate speaker ordinal")
	// ErrInvalidSegment reports a segment with unusable bounds.
	ErrInvalidSegment = errors.New("invalid segment")
)

// Error describes an alignment failure. Kind is one of the sentinel errors
// above and is returned by Unwrap, so callers can match with errors.Is and
// inspect details with errors.As.
type Error struct {
	Kind    error
	Label   string
	Other   string
	Index   SpeakerIndex
	Names   int
	Segment int
	Start   float64
	End     float64
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrMalformedLabel:
		return fmt.Sprintf("%v: %q has no numeric ordinal", e.Kind, e.Label)
	case ErrDuplicateOrdinal:
		return fmt.Sprintf("%v: %q and %q both map to speaker %d", e.Kind, e.Other, e.Label, e.Index)
	case ErrNoOverlap:
		return fmt.Sprintf("%v: utterance %d [%.3f, %.3f] matches no speaker", e.Kind, e.Segment, e.Start, e.End)
	case ErrSpeakerIndexOutOfRange:
		return fmt.Sprintf("%v: utterance %d resolved to speaker %d (%s) but only %d names were given",
			e.Kind, e.Segment, e.Index, e.Label, e.Names)
	case ErrInvalidSegment:
		if e.Label != "" {
			return fmt.Sprintf("%v: segment %d of %q has bounds [%v, %v]", e.Kind, e.Segment, e.Label, e.Start, e.End)
		}
		return fmt.Sprintf("%v: segment %d has bounds [%v, %v]", e.Kind, e.Segment, e.Start, e.End)
	default:
		return fmt.Sprintf("align: %v", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}
