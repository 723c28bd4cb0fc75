package transcription

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"speakerscript/internal/align"
	"speakerscript/internal/fileutil"
)

// Segment is one transcribed utterance.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type payload struct {
	Segments *[]Segment `json:"segments"`
}

// Load reads and validates a transcription JSON file.
func Load(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcription: %w", err)
	}
	segments, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return segments, nil
}

// Decode reads all of r and parses it with Parse.
func Decode(r io.Reader) ([]Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transcription: %w", err)
	}
	return Parse(data)
}

// Parse accepts a bare segment array or an object with a "segments" array.
func Parse(data []byte) ([]Segment, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("parse transcription json: empty document")
	}
	var segments []Segment
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &segments); err != nil {
			return nil, fmt.Errorf("parse transcription json: %w", err)
		}
	case '{':
		var p payload
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("parse transcription json: %w", err)
		}
		if p.Segments == nil {
			return nil, errors.New("parse transcription json: object has no \"segments\" array")
		}
		segments = *p.Segments
	default:
		return nil, errors.New("parse transcription json: expected array or object")
	}
	for i, seg := range segments {
		if math.IsNaN(seg.Start) || math.IsNaN(seg.End) || math.IsInf(seg.Start, 0) || math.IsInf(seg.End, 0) {
			return nil, fmt.Errorf("transcription segment %d: non-finite bounds", i)
		}
		if seg.Start > seg.End {
			return nil, fmt.Errorf("transcription segment %d: start %.3f is after end %.3f", i, seg.Start, seg.End)
		}
	}
	return segments, nil
}

// Write stores segments as an indented UTF-8 JSON array, atomically.
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

// ToAlign converts segments for the transcript assembler.
func ToAlign(segments []Segment) []align.TranscriptSegment {
	out := make([]align.TranscriptSegment, len(segments))
	for i, seg := range segments {
		out[i] = align.TranscriptSegment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	return out
}
