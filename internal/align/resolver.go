package align

import (
	"math"
)

// overlapEpsilon is the tolerance, in seconds, under which two overlap totals
// are considered equal and a total is considered zero.
const overlapEpsilon = 1e-9

// Resolution is the outcome of attributing one window to a speaker.
type Resolution struct {
	Index   SpeakerIndex
	Label   string
	Overlap float64
	// Total is the overlap summed over every label.
	Total float64
	// Tied lists the other labels whose overlap equalled the winner's.
	Tied []string
	// Fallback is set when the speaker was chosen by a Fallback policy
	// instead of an overlap vote.
	Fallback Fallback
}

// Resolver attributes time windows to diarized speakers.
type Resolver struct {
	segments []DiarizationSegment
	speakers *SpeakerMap
}

// NewResolver validates segments and numbers their labels with order.
func NewResolver(segments []DiarizationSegment, order Order) (*Resolver, error) {
	for i, seg := range segments {
		if !finite(seg.Start) || !finite(seg.End) || seg.Start >= seg.End {
			return nil, &Error{Kind: ErrInvalidSegment, Label: seg.Speaker, Segment: i, Start: seg.Start, End: seg.End}
		}
	}
	speakers, err := NewSpeakerMap(segments, order)
	if err != nil {
		return nil, err
	}
	return &Resolver{segments: segments, speakers: speakers}, nil
}

// Speakers returns the label mapping used by the resolver.
func (r *Resolver) Speakers() *SpeakerMap {
	return r.speakers
}

// Overlap returns the seconds shared by seg and [start, end].
func Overlap(seg DiarizationSegment, start, end float64) float64 {
	return math.Max(0, math.Min(seg.End, end)-math.Max(seg.Start, start))
}

// Overlaps sums the overlap with [start, end] per label. Every label known to
// the resolver is present, with zero when it does not overlap the window.
func (r *Resolver) Overlaps(start, end float64) map[string]float64 {
	totals := make(map[string]float64, r.speakers.Len())
	for _, entry := range r.speakers.entries {
		totals[entry.Label] = 0
	}
	for _, seg := range r.segments {
		totals[seg.Speaker] += Overlap(seg, start, end)
	}
	return totals
}

// Resolve picks the speaker with the largest accumulated overlap with
// [start, end]. Ties go to the lowest SpeakerIndex.
func (r *Resolver) Resolve(start, end float64) (Resolution, error) {
	if !finite(start) || !finite(end) || start > end {
		return Resolution{Index: noSpeaker}, &Error{Kind: ErrInvalidSegment, Segment: -1, Start: start, End: end}
	}
	totals := r.Overlaps(start, end)

	var sum float64
	best := Resolution{Index: noSpeaker}
	for _, entry := range r.speakers.entries {
		total := totals[entry.Label]
		sum += total
		switch {
		case best.Index == noSpeaker || total > best.Overlap+overlapEpsilon:
			best = Resolution{Index: entry.Index, Label: entry.Label, Overlap: total}
		case math.Abs(total-best.Overlap) <= overlapEpsilon:
			best.Tied = append(best.Tied, entry.Label)
		}
	}
	if best.Index == noSpeaker || best.Overlap <= overlapEpsilon {
		return Resolution{Index: noSpeaker}, &Error{Kind: ErrNoOverlap, Segment: -1, Start: start, End: end}
	}
	best.Total = sum
	return best, nil
}

// Nearest picks the segment whose midpoint is closest to the midpoint of
// [start, end]. Ties go to the lowest SpeakerIndex.
func (r *Resolver) Nearest(start, end float64) (Resolution, error) {
	mid := (start + end) / 2
	best := Resolution{Index: noSpeaker, Fallback: FallbackNearest}
	bestDistance := math.Inf(1)
	for _, seg := range r.segments {
		idx := r.speakers.byLabel[seg.Speaker]
		distance := math.Abs((seg.Start+seg.End)/2 - mid)
		if distance < bestDistance-overlapEpsilon ||
			(math.Abs(distance-bestDistance) <= overlapEpsilon && idx < best.Index) {
			best.Index = idx
			best.Label = seg.Speaker
			bestDistance = distance
		}
	}
	if best.Index == noSpeaker {
		return Resolution{Index: noSpeaker}, &Error{Kind: ErrNoOverlap, Segment: -1, Start: start, End: end}
	}
	return best, nil
}

// Resolve attributes [windowStart, windowEnd] to a speaker using label
// ordinals. It is a convenience wrapper for one-off lookups; build a Resolver
// once when resolving many windows against the same diarization.
func Resolve(diarization []DiarizationSegment, windowStart, windowEnd float64) (SpeakerIndex, error) {
	r, err := NewResolver(diarization, OrderLabelOrdinal)
	if err != nil {
		return noSpeaker, err
	}
	res, err := r.Resolve(windowStart, windowEnd)
	if err != nil {
		return noSpeaker, err
	}
	return res.Index, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
