package align

import (
	"errors"
	"math/rand"
	"testing"
)

func twoSpeakers() []DiarizationSegment {
	return []DiarizationSegment{
		{Start: 0, End: 5, Speaker: "SPEAKER_00"},
		{Start: 5, End: 10, Speaker: "SPEAKER_01"},
	}
}

func TestResolveWindowInsideSingleSegment(t *testing.T) {
	cases := []struct {
		start, end float64
		want       SpeakerIndex
	}{
		{0, 4, 0},
		{1.5, 2.5, 0},
		{6, 9, 1},
		{5, 10, 1},
	}
	for _, tc := range cases {
		got, err := Resolve(twoSpeakers(), tc.start, tc.end)
		if err != nil {
			t.Fatalf("Resolve(%v, %v) returned error: %v", tc.start, tc.end, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%v, %v) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestResolveTieGoesToLowestIndex(t *testing.T) {
	r, err := NewResolver(twoSpeakers(), OrderLabelOrdinal)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	res, err := r.Resolve(4, 6)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Index != 0 || res.Label != "SPEAKER_00" {
		t.Fatalf("expected SPEAKER_00 to win the tie, got %+v", res)
	}
	if len(res.Tied) != 1 || res.Tied[0] != "SPEAKER_01" {
		t.Fatalf("expected SPEAKER_01 reported as tied, got %v", res.Tied)
	}
	if res.Overlap != 1 {
		t.Fatalf("expected overlap 1.0, got %v", res.Overlap)
	}
}

func TestResolveTieIgnoresInputOrder(t *testing.T) {
	reversed := []DiarizationSegment{
		{Start: 5, End: 10, Speaker: "SPEAKER_01"},
		{Start: 0, End: 5, Speaker: "SPEAKER_00"},
	}
	got, err := Resolve(reversed, 4, 6)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected speaker 0, got %d", got)
	}
}

func TestResolveAccumulatesAcrossSegments(t *testing.T) {
	segments := []DiarizationSegment{
		{Start: 0, End: 1, Speaker: "SPEAKER_00"},
		{Start: 1, End: 2.5, Speaker: "SPEAKER_01"},
		{Start: 2.5, End: 3.5, Speaker: "SPEAKER_00"},
		{Start: 3.5, End: 4, Speaker: "SPEAKER_01"},
	}
	// [0, 3.6]: SPEAKER_00 1.0+1.0s, SPEAKER_01 1.5+0.1s.
	got, err := Resolve(segments, 0, 3.6)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected SPEAKER_00, got %d", got)
	}
	// [0.5, 2.6]: SPEAKER_00 0.6s, SPEAKER_01 1.5s.
	got, err = Resolve(segments, 0.5, 2.6)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected SPEAKER_01, got %d", got)
	}
}

func TestResolveInvariantUnderReordering(t *testing.T) {
	segments := []DiarizationSegment{
		{Start: 0, End: 2.2, Speaker: "SPEAKER_00"},
		{Start: 1.9, End: 4.1, Speaker: "SPEAKER_01"},
		{Start: 3.3, End: 6.7, Speaker: "SPEAKER_02"},
		{Start: 6.0, End: 7.5, Speaker: "SPEAKER_00"},
		{Start: 7.1, End: 9.9, Speaker: "SPEAKER_01"},
	}
	windows := [][2]float64{{0, 1}, {1.5, 3.5}, {3, 7}, {5.9, 8}, {7, 10}, {2, 6.5}}

	want := make([]SpeakerIndex, len(windows))
	for i, w := range windows {
		idx, err := Resolve(segments, w[0], w[1])
		if err != nil {
			t.Fatalf("Resolve(%v): %v", w, err)
		}
		want[i] = idx
	}

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		shuffled := append([]DiarizationSegment(nil), segments...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for i, w := range windows {
			idx, err := Resolve(shuffled, w[0], w[1])
			if err != nil {
				t.Fatalf("Resolve(%v): %v", w, err)
			}
			if idx != want[i] {
				t.Fatalf("round %d window %v: got %d want %d", round, w, idx, want[i])
			}
		}
	}
}

func TestOverlapExactMatchIsFullDuration(t *testing.T) {
	seg := DiarizationSegment{Start: 2.25, End: 7.75, Speaker: "SPEAKER_03"}
	if got := Overlap(seg, 2.25, 7.75); got != seg.Duration() {
		t.Fatalf("overlap = %v, want %v", got, seg.Duration())
	}
	if got := Overlap(seg, 8, 9); got != 0 {
		t.Fatalf("disjoint overlap = %v, want 0", got)
	}
}

func TestResolveNoOverlap(t *testing.T) {
	_, err := Resolve(twoSpeakers(), 12, 14)
	if !errors.Is(err, ErrNoOverlap) {
		t.Fatalf("expected ErrNoOverlap, got %v", err)
	}
	_, err = Resolve(nil, 0, 1)
	if !errors.Is(err, ErrNoOverlap) {
		t.Fatalf("expected ErrNoOverlap for empty diarization, got %v", err)
	}
}

func TestResolveTouchingBoundaryIsNoOverlap(t *testing.T) {
	_, err := Resolve(twoSpeakers(), 10, 10)
	if !errors.Is(err, ErrNoOverlap) {
		t.Fatalf("expected ErrNoOverlap for zero-length window, got %v", err)
	}
}

func TestResolveMalformedLabel(t *testing.T) {
	segments := []DiarizationSegment{{Start: 0, End: 1, Speaker: "narrator"}}
	_, err := Resolve(segments, 0, 1)
	if !errors.Is(err, ErrMalformedLabel) {
		t.Fatalf("expected ErrMalformedLabel, got %v", err)
	}
	var alignErr *Error
	if !errors.As(err, &alignErr) || alignErr.Label != "narrator" {
		t.Fatalf("expected *Error naming the label, got %#v", err)
	}
}

func TestNewResolverRejectsInvalidSegments(t *testing.T) {
	segments := []DiarizationSegment{
		{Start: 0, End: 1, Speaker: "SPEAKER_00"},
		{Start: 3, End: 3, Speaker: "SPEAKER_01"},
	}
	_, err := NewResolver(segments, OrderLabelOrdinal)
	if !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}
	var alignErr *Error
	if !errors.As(err, &alignErr) || alignErr.Segment != 1 {
		t.Fatalf("expected segment 1 in error, got %#v", err)
	}
}

func TestNearestPicksClosestMidpoint(t *testing.T) {
	segments := []DiarizationSegment{
		{Start: 0, End: 2, Speaker: "SPEAKER_00"},
		{Start: 10, End: 12, Speaker: "SPEAKER_01"},
	}
	r, err := NewResolver(segments, OrderLabelOrdinal)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	res, err := r.Nearest(8, 9)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if res.Index != 1 || res.Fallback != FallbackNearest {
		t.Fatalf("expected nearest SPEAKER_01, got %+v", res)
	}
	res, err = r.Nearest(6, 6)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if res.Index != 0 {
		t.Fatalf("expected equidistant window to go to speaker 0, got %d", res.Index)
	}
}

func TestResolutionReportsTotalOverlap(t *testing.T) {
	r, err := NewResolver(twoSpeakers(), OrderLabelOrdinal)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	res, err := r.Resolve(3, 6)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Index != 0 || res.Overlap != 2 || res.Total != 3 {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if labels := r.Speakers().Labels(); len(labels) != 2 || labels[0] != "SPEAKER_00" || labels[1] != "SPEAKER_01" {
		t.Fatalf("unexpected labels %v", labels)
	}
}
