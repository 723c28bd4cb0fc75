package align

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Order selects how diarization labels are numbered.
type Order int

const (
	// OrderLabelOrdinal uses the first run of digits in each label ("SPEAKER_02" -> 2).
	OrderLabelOrdinal Order = iota
	// OrderFirstAppearance numbers labels 0..n-1 by their earliest segment start.
	OrderFirstAppearance
)

// ParseOrder converts a configuration value to an Order.
func ParseOrder(value string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "label", "ordinal":
		return OrderLabelOrdinal, nil
	case "appearance", "first-appearance", "first_appearance":
		return OrderFirstAppearance, nil
	default:
		return OrderLabelOrdinal, fmt.Errorf("unknown speaker order %q (want label or appearance)", value)
	}
}

func (o Order) String() string {
	switch o {
	case OrderFirstAppearance:
		return "appearance"
	default:
		return "label"
	}
}

var ordinalPattern = regexp.MustCompile(`[0-9]+`)

// ParseOrdinal extracts the first maximal run of decimal digits from label.
func ParseOrdinal(label string) (SpeakerIndex, error) {
	digits := ordinalPattern.FindString(label)
	if digits == "" {
		return noSpeaker, &Error{Kind: ErrMalformedLabel, Label: label, Index: noSpeaker}
	}
	value, err := strconv.Atoi(digits)
	if err != nil || value > math.MaxInt32 {
		return noSpeaker, &Error{Kind: ErrMalformedLabel, Label: label, Index: noSpeaker}
	}
	return SpeakerIndex(value), nil
}

// LabelIndex pairs a diarization label with its SpeakerIndex.
type LabelIndex struct {
	Label string
	Index SpeakerIndex
}

// SpeakerMap is the fixed label -> SpeakerIndex mapping for one run.
type SpeakerMap struct {
	order   Order
	byLabel map[string]SpeakerIndex
	entries []LabelIndex
}

// NewSpeakerMap builds the mapping from the distinct labels in segments.
func NewSpeakerMap(segments []DiarizationSegment, order Order) (*SpeakerMap, error) {
	m := &SpeakerMap{order: order, byLabel: make(map[string]SpeakerIndex)}
	switch order {
	case OrderFirstAppearance:
		first := make(map[string]float64)
		for _, seg := range segments {
			if start, ok := first[seg.Speaker]; !ok || seg.Start < start {
				first[seg.Speaker] = seg.Start
			}
		}
		labels := make([]string, 0, len(first))
		for label := range first {
			labels = append(labels, label)
		}
		sort.Slice(labels, func(i, j int) bool {
			if first[labels[i]] != first[labels[j]] {
				return first[labels[i]] < first[labels[j]]
			}
			return labels[i] < labels[j]
		})
		for i, label := range labels {
			m.byLabel[label] = SpeakerIndex(i)
			m.entries = append(m.entries, LabelIndex{Label: label, Index: SpeakerIndex(i)})
		}
	default:
		owners := make(map[SpeakerIndex]string)
		for _, seg := range segments {
			if _, ok := m.byLabel[seg.Speaker]; ok {
				continue
			}
			idx, err := ParseOrdinal(seg.Speaker)
			if err != nil {
				return nil, err
			}
			if other, taken := owners[idx]; taken {
				first, second := other, seg.Speaker
				if second < first {
					first, second = second, first
				}
				return nil, &Error{Kind: ErrDuplicateOrdinal, Label: second, Other: first, Index: idx}
			}
			owners[idx] = seg.Speaker
			m.byLabel[seg.Speaker] = idx
			m.entries = append(m.entries, LabelIndex{Label: seg.Speaker, Index: idx})
		}
		sort.Slice(m.entries, func(i, j int) bool { return m.entries[i].Index < m.entries[j].Index })
	}
	return m, nil
}

// Order reports how the map was numbered.
func (m *SpeakerMap) Order() Order { return m.order }

// Len returns the number of distinct labels.
func (m *SpeakerMap) Len() int { return len(m.entries) }

// Index returns the SpeakerIndex assigned to label.
func (m *SpeakerMap) Index(label string) (SpeakerIndex, bool) {
	idx, ok := m.byLabel[label]
	return idx, ok
}

// Label returns the label assigned to idx.
func (m *SpeakerMap) Label(idx SpeakerIndex) (string, bool) {
	for _, entry := range m.entries {
		if entry.Index == idx {
			return entry.Label, true
		}
	}
	return "", false
}

// Entries returns the mapping sorted by SpeakerIndex.
func (m *SpeakerMap) Entries() []LabelIndex {
	out := make([]LabelIndex, len(m.entries))
	copy(out, m.entries)
	return out
}

// Labels returns the labels sorted by SpeakerIndex.
func (m *SpeakerMap) Labels() []string {
	out := make([]string, len(m.entries))
	for i, entry := range m.entries {
		out[i] = entry.Label
	}
	return out
}

// MaxIndex returns the highest assigned SpeakerIndex, or -1 for an empty map.
func (m *SpeakerMap) MaxIndex() SpeakerIndex {
	if len(m.entries) == 0 {
		return noSpeaker
	}
	return m.entries[len(m.entries)-1].Index
}

// TalkTime sums segment durations per label.
func TalkTime(segments []DiarizationSegment) map[string]float64 {
	totals := make(map[string]float64)
	for _, seg := range segments {
		totals[seg.Speaker] += seg.Duration()
	}
	return totals
}
