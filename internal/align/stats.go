package align

import "sort"

// SpeakerStats summarizes one speaker's share of an assembled transcript.
type SpeakerStats struct {
	Speaker    string
	Index      SpeakerIndex
	Turns      int
	Utterances int
	// Seconds sums the spans of the speaker's turns.
	Seconds float64
}

// Summarize aggregates blocks per speaker, ordered by SpeakerIndex.
func Summarize(blocks []Block) []SpeakerStats {
	byIndex := make(map[SpeakerIndex]*SpeakerStats)
	for _, block := range blocks {
		stats, ok := byIndex[block.Index]
		if !ok {
			stats = &SpeakerStats{Speaker: block.Speaker, Index: block.Index}
			byIndex[block.Index] = stats
		}
		stats.Turns++
		stats.Utterances += len(block.Lines)
		stats.Seconds += block.End - block.Start
	}
	out := make([]SpeakerStats, 0, len(byIndex))
	for _, stats := range byIndex {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
