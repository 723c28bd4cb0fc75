package diarization

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"speakerscript/internal/align"
	"speakerscript/internal/fileutil"
)

// Segment is one diarized speaking turn.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Load reads and validates a diarization JSON file.
func Load(path string) ([]Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open diarization: %w", err)
	}
	defer file.Close()
	segments, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return segments, nil
}

// Decode parses a JSON array of segments. Every segment needs a speaker
// label, finite bounds, and start < end.
func Decode(r io.Reader) ([]Segment, error) {
	var segments []Segment
	if err := json.NewDecoder(r).Decode(&segments); err != nil {
		return nil, fmt.Errorf("parse diarization json: %w", err)
	}
	for i := range segments {
		seg := &segments[i]
		seg.Speaker = strings.TrimSpace(seg.Speaker)
		if seg.Speaker == "" {
			return nil, fmt.Errorf("diarization segment %d: missing speaker label", i)
		}
		if math.IsNaN(seg.Start) || math.IsNaN(seg.End) || math.IsInf(seg.Start, 0) || math.IsInf(seg.End, 0) {
			return nil, fmt.Errorf("diarization segment %d: non-finite bounds", i)
		}
		if seg.Start >= seg.End {
			return nil, fmt.Errorf("diarization segment %d: start %.3f is not before end %.3f", i, seg.Start, seg.End)
		}
	}
	return segments, nil
}

// Write stores segments as indented UTF-8 JSON, atomically.
func Write(path string, segments []Segment) error {
	if segments == nil {
		segments = []Segment{}
	}
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(segments)
	})
}

// ToAlign converts segments for the speaker resolver.
func ToAlign(segments []Segment) []align.DiarizationSegment {
	out := make([]align.DiarizationSegment, len(segments))
	for i, seg := range segments {
		out[i] = align.DiarizationSegment{Start: seg.Start, End: seg.End, Speaker: seg.Speaker}
	}
	return out
}

// Labels returns the distinct speaker labels in order of first appearance
// in the slice.
func Labels(segments []Segment) []string {
	seen := make(map[string]struct{}, 4)
	var labels []string
	for _, seg := range segments {
		if _, ok := seen[seg.Speaker]; ok {
			continue
		}
		seen[seg.Speaker] = struct{}{}
		labels = append(labels, seg.Speaker)
	}
	return labels
}
