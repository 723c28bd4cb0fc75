package align

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// Format selects a transcript rendering.
type Format string

const (
	FormatText        Format = "text"
	FormatTimestamped Format = "timestamped"
	FormatJSON        Format = "json"
)

// ParseFormat converts a configuration value to a Format.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatTimestamped, FormatJSON:
		return f, nil
	default:
		return FormatText, fmt.Errorf("unknown transcript format %q (want text, timestamped, or json)", value)
	}
}

// Render writes blocks to w in the requested format.
func Render(w io.Writer, blocks []Block, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if blocks == nil {
			blocks = []Block{}
		}
		return enc.Encode(blocks)
	case FormatTimestamped:
		return renderBlocks(w, blocks, func(b Block) string {
			return fmt.Sprintf("%s [%s - %s]:", b.Speaker, FormatTimestamp(b.Start), FormatTimestamp(b.End))
		})
	default:
		return renderBlocks(w, blocks, func(b Block) string { return b.Speaker + ":" })
	}
}

// RenderText writes the plain speaker script: each block starts with
// "Name:" on its own line followed by one line per utterance, and blocks are
// separated by a single blank line.
func RenderText(w io.Writer, blocks []Block) error {
	return Render(w, blocks, FormatText)
}

// Text returns the plain speaker script as a string.
func Text(blocks []Block) string {
	var buf bytes.Buffer
	_ = RenderText(&buf, blocks)
	return buf.String()
}

func renderBlocks(w io.Writer, blocks []Block, header func(Block) string) error {
	bw := bufio.NewWriter(w)
	for i, block := range blocks {
		if i > 0 {
			bw.WriteByte('\n')
		}
		bw.WriteString(header(block))
		bw.WriteByte('\n')
		for _, line := range block.Lines {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// FormatTimestamp renders seconds as HH:MM:SS.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
