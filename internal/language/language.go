package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic ISO 639-2/B codes that x/text does not resolve on its own.
var bibliographic = map[string]string{
	"fre": "fr",
	"ger": "de",
	"chi": "zh",
	"dut": "nl",
	"cze": "cs",
	"gre": "el",
	"per": "fa",
	"rum": "ro",
	"slo": "sk",
	"wel": "cy",
	"arm": "hy",
	"baq": "eu",
	"ice": "is",
	"mac": "mk",
	"may": "ms",
	"bur": "my",
	"geo": "ka",
	"tib": "bo",
	"alb": "sq",
}

// words maps English language names to ISO 639-1 codes.
var words = map[string]string{
	"english":    "en",
	"french":     "fr",
	"spanish":    "es",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
}

// ToISO2 converts a language code or English name to ISO 639-1.
// Returns "" when the input is empty, unknown, or has no two-letter form.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if mapped, ok := words[code]; ok {
		return mapped
	}
	if mapped, ok := bibliographic[code]; ok {
		return mapped
	}
	if tag, err := language.Parse(code); err == nil && len(code) > 3 {
		base, _ := tag.Base()
		return twoLetter(base)
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return ""
	}
	return twoLetter(base)
}

func twoLetter(base language.Base) string {
	if s := base.String(); len(s) == 2 {
		return s
	}
	return ""
}

// DisplayName returns the English name for a language code, "Auto-detect"
// for empty input, or the uppercased code when unrecognized.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Auto-detect"
	}
	iso := ToISO2(trimmed)
	if iso == "" {
		return strings.ToUpper(trimmed)
	}
	tag, err := language.Parse(iso)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(iso)
}
