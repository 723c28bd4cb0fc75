package pipeline

import (
	"fmt"
	"strings"

	"speakerscript/internal/align"
	"speakerscript/internal/config"
	"speakerscript/internal/services"
	"speakerscript/internal/textutil"
)

// alignSettings is the parsed form of the format, order, and fallback knobs.
type alignSettings struct {
	format   align.Format
	order    align.Order
	fallback align.Fallback
}

func resolveSettings(cfg *config.Config, format, order, noOverlap string) (alignSettings, error) {
	pick := func(override, fallback string) string {
		if strings.TrimSpace(override) != "" {
			return override
		}
		return fallback
	}
	var s alignSettings
	var err error
	if s.format, err = align.ParseFormat(pick(format, cfg.Align.Format)); err != nil {
		return s, services.Wrap(services.ErrValidation, StageAssemble, "format", "", err)
	}
	if s.order, err = align.ParseOrder(pick(order, cfg.Align.SpeakerOrder)); err != nil {
		return s, services.Wrap(services.ErrValidation, StageAssemble, "speaker order", "", err)
	}
	if s.fallback, err = align.ParseFallback(pick(noOverlap, cfg.Align.NoOverlap)); err != nil {
		return s, services.Wrap(services.ErrValidation, StageAssemble, "no-overlap policy", "", err)
	}
	return s, nil
}

// normalizeSpeakers cleans display names and rejects blanks.
func normalizeSpeakers(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, services.Wrap(services.ErrValidation, "", "speakers", "at least one speaker name is required", nil)
	}
	out := make([]string, len(names))
	for i, name := range names {
		cleaned := textutil.NormalizeName(name)
		if cleaned == "" {
			return nil, services.Wrap(services.ErrValidation, "", "speakers", fmt.Sprintf("speaker %d has an empty name", i+1), nil)
		}
		out[i] = cleaned
	}
	return out, nil
}
