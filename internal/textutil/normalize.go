package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText converts text to Unicode NFC and collapses every run of
// whitespace to a single space, trimming the ends. Transcribers emit
// decomposed accents and leading spaces depending on the model.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// NormalizeName cleans a user-supplied speaker display name.
func NormalizeName(name string) string {
	return NormalizeText(name)
}
