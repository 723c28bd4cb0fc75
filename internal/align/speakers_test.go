package align

import (
	"errors"
	"testing"
)

func TestParseOrdinal(t *testing.T) {
	cases := []struct {
		label string
		want  SpeakerIndex
	}{
		{"SPEAKER_00", 0},
		{"SPEAKER_01", 1},
		{"SPEAKER_12", 12},
		{"spk3_take2", 3},
		{"7", 7},
	}
	for _, tc := range cases {
		got, err := ParseOrdinal(tc.label)
		if err != nil {
			t.Fatalf("ParseOrdinal(%q): %v", tc.label, err)
		}
		if got != tc.want {
			t.Fatalf("ParseOrdinal(%q) = %d, want %d", tc.label, got, tc.want)
		}
	}

	for _, label := range []string{"", "SPEAKER", "narrator", "99999999999999999999"} {
		if _, err := ParseOrdinal(label); !errors.Is(err, ErrMalformedLabel) {
			t.Fatalf("ParseOrdinal(%q): expected ErrMalformedLabel, got %v", label, err)
		}
	}
}

func TestSpeakerMapLabelOrdinal(t *testing.T) {
	segments := []DiarizationSegment{
		{Start: 0, End: 1, Speaker: "SPEAKER_02"},
		{Start: 1, End: 2, Speaker: "SPEAKER_00"},
		{Start: 2, End: 3, Speaker: "SPEAKER_02"},
	}
	m, err := NewSpeakerMap(segments, OrderLabelOrdinal)
	if err != nil {
		t.Fatalf("NewSpeakerMap: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 labels, got %d", m.Len())
	}
	if idx, ok := m.Index("SPEAKER_02"); !ok || idx != 2 {
		t.Fatalf("SPEAKER_02 -> %d (%v), want 2", idx, ok)
	}
	entries := m.Entries()
	if entries[0].Label != "SPEAKER_00" || entries[1].Label != "SPEAKER_02" {
		t.Fatalf("entries not sorted by index: %+v", entries)
	}
	if m.MaxIndex() != 2 {
		t.Fatalf("MaxIndex = %d, want 2", m.MaxIndex())
	}
	if _, ok := m.Label(1); ok {
		t.Fatal("expected no label for unused index 1")
	}
}

func TestSpeakerMapDuplicateOrdinal(t *testing.T) {
	segments := []DiarizationSegment{
		{Start: 0, End: 1, Speaker: "SPEAKER_1"},
		{Start: 1, End: 2, Speaker: "SPEAKER_01"},
	}
	_, err := NewSpeakerMap(segments, OrderLabelOrdinal)
	if !errors.Is(err, ErrDuplicateOrdinal) {
		t.Fatalf("expected ErrDuplicateOrdinal, got %v", err)
	}
}

func TestSpeakerMapFirstAppearance(t *testing.T) {
	segments := []DiarizationSegment{
		{Start: 4, End: 6, Speaker: "SPEAKER_00"},
		{Start: 0, End: 3, Speaker: "guest"},
		{Start: 7, End: 8, Speaker: "host"},
		{Start: 4, End: 5, Speaker: "cohost"},
	}
	m, err := NewSpeakerMap(segments, OrderFirstAppearance)
	if err != nil {
		t.Fatalf("NewSpeakerMap: %v", err)
	}
	want := []string{"guest", "SPEAKER_00", "cohost", "host"}
	for i, label := range want {
		idx, ok := m.Index(label)
		if !ok || int(idx) != i {
			t.Fatalf("%s -> %d (%v), want %d", label, idx, ok, i)
		}
	}
}

func TestParseOrder(t *testing.T) {
	if o, err := ParseOrder("Appearance"); err != nil || o != OrderFirstAppearance {
		t.Fatalf("ParseOrder(Appearance) = %v, %v", o, err)
	}
	if o, err := ParseOrder(""); err != nil || o != OrderLabelOrdinal {
		t.Fatalf("ParseOrder(\"\") = %v, %v", o, err)
	}
	if _, err := ParseOrder("alphabetical"); err == nil {
		t.Fatal("expected error for unknown order")
	}
}
