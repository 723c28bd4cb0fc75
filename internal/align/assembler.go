package align

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"speakerscript/internal/logging"
	"speakerscript/internal/textutil"
)

// Fallback selects what the Assembler does with an utterance that no
// diarization segment overlaps.
type Fallback int

const (
	// FallbackFail returns ErrNoOverlap to the caller.
	FallbackFail Fallback = iota
	// FallbackNearest attributes the utterance to the segment with the closest midpoint.
	FallbackNearest
	// FallbackPrevious keeps the previous utterance's speaker.
	FallbackPrevious
)

// ParseFallback converts a configuration value to a Fallback.
func ParseFallback(value string) (Fallback, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "fail", "error":
		return FallbackFail, nil
	case "nearest":
		return FallbackNearest, nil
	case "previous", "last":
		return FallbackPrevious, nil
	default:
		return FallbackFail, fmt.Errorf("unknown no-overlap policy %q (want fail, nearest, or previous)", value)
	}
}

func (f Fallback) String() string {
	switch f {
	case FallbackNearest:
		return "nearest"
	case FallbackPrevious:
		return "previous"
	default:
		return "fail"
	}
}

// Options tunes Assemble.
type Options struct {
	Order     Order
	NoOverlap Fallback
	Logger    *slog.Logger
}

// Assembler applies one set of Options to many transcripts.
type Assembler struct {
	opts Options
}

// NewAssembler returns an Assembler using opts.
func NewAssembler(opts Options) *Assembler {
	return &Assembler{opts: opts}
}

// Assemble runs the package-level Assemble with the assembler's options.
func (a *Assembler) Assemble(diarization []DiarizationSegment, transcript []TranscriptSegment, speakerNames []string) ([]Block, error) {
	return Assemble(diarization, transcript, speakerNames, a.opts)
}

// Assemble attributes every utterance in transcript to a speaker and groups
// consecutive utterances by the same speaker into Blocks. speakerNames[i] is
// the display name for SpeakerIndex i. Utterance text is whitespace-normalized;
// blank utterances are dropped and neither open nor close a turn.
func Assemble(diarization []DiarizationSegment, transcript []TranscriptSegment, speakerNames []string, opts Options) ([]Block, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	resolver, err := NewResolver(diarization, opts.Order)
	if err != nil {
		return nil, err
	}
	if highest := resolver.Speakers().MaxIndex(); int(highest) >= len(speakerNames) {
		logger.Debug("diarization has more speakers than names",
			logging.Int("labels", resolver.Speakers().Len()),
			logging.Int("max_index", int(highest)),
			logging.Int("names", len(speakerNames)),
		)
	}

	var blocks []Block
	last := noSpeaker
	for i, seg := range transcript {
		if !finite(seg.Start) || !finite(seg.End) || seg.Start > seg.End {
			return nil, &Error{Kind: ErrInvalidSegment, Segment: i, Start: seg.Start, End: seg.End}
		}
		text := textutil.NormalizeText(seg.Text)
		if text == "" {
			continue
		}

		res, err := resolver.Resolve(seg.Start, seg.End)
		if err != nil {
			res, err = applyFallback(resolver, opts.NoOverlap, seg, last, err)
			if err != nil {
				var alignErr *Error
				if errors.As(err, &alignErr) {
					alignErr.Segment = i
				}
				return nil, err
			}
			logger.Info("utterance without overlapping speaker attributed by fallback",
				logging.Args(append(logging.DecisionAttrs("no_overlap", res.Label, res.Fallback.String()),
					logging.Int("utterance", i),
					logging.Float64("start", seg.Start),
					logging.Float64("end", seg.End),
				)...)...,
			)
		} else if len(res.Tied) > 0 {
			logger.Debug("overlap tie broken by lowest speaker index",
				logging.Args(append(logging.DecisionAttrsWithOptions("speaker_tie", res.Label, "lowest_index",
					strings.Join(append([]string{res.Label}, res.Tied...), ",")),
					logging.Int("utterance", i),
					logging.Float64("overlap_seconds", res.Overlap),
				)...)...,
			)
		}

		if res.Index < 0 || int(res.Index) >= len(speakerNames) {
			return nil, &Error{
				Kind:    ErrSpeakerIndexOutOfRange,
				Label:   res.Label,
				Index:   res.Index,
				Names:   len(speakerNames),
				Segment: i,
				Start:   seg.Start,
				End:     seg.End,
			}
		}

		if res.Index != last {
			blocks = append(blocks, Block{
				Speaker: speakerNames[res.Index],
				Index:   res.Index,
				Start:   seg.Start,
				End:     seg.End,
			})
			last = res.Index
		}
		block := &blocks[len(blocks)-1]
		block.Lines = append(block.Lines, text)
		if seg.End > block.End {
			block.End = seg.End
		}
	}
	return blocks, nil
}

func applyFallback(r *Resolver, policy Fallback, seg TranscriptSegment, last SpeakerIndex, cause error) (Resolution, error) {
	if !errors.Is(cause, ErrNoOverlap) {
		return Resolution{Index: noSpeaker}, cause
	}
	switch policy {
	case FallbackNearest:
		return r.Nearest(seg.Start, seg.End)
	case FallbackPrevious:
		if last == noSpeaker {
			return Resolution{Index: noSpeaker}, cause
		}
		label, _ := r.Speakers().Label(last)
		return Resolution{Index: last, Label: label, Fallback: FallbackPrevious}, nil
	default:
		return Resolution{Index: noSpeaker}, cause
	}
}
