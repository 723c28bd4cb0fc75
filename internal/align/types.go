package align

// DiarizationSegment is one interval during which the diarizer heard a speaker.
// Segments may overlap each other when speakers talk over one another.
type DiarizationSegment struct {
	Start   float64
	End     float64
	Speaker string
}

// Duration returns the segment length in seconds.
func (s DiarizationSegment) Duration() float64 {
	return s.End - s.Start
}

// TranscriptSegment is one recognized utterance.
type TranscriptSegment struct {
	Start float64
	End   float64
	Text  string
}

// SpeakerIndex is a position in the caller's ordered list of speaker names.
type SpeakerIndex int

const noSpeaker SpeakerIndex = -1

// Block is one speaker turn: consecutive utterances attributed to the same speaker.
type Block struct {
	Speaker string       `json:"speaker"`
	Index   SpeakerIndex `json:"index"`
	Start   float64      `json:"start"`
	End     float64      `json:"end"`
	Lines   []string     `json:"lines"`
}
