package runlog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Keys rendered in the line prefix rather than as trailing fields.
var headerKeys = map[string]struct{}{
	"ts": {}, "level": {}, "msg": {}, "component": {}, "stage": {}, "run_id": {}, "recording": {},
}

// Format renders one JSON log record as "TS LEVEL component/stage: msg k=v".
// Lines that are not JSON objects are returned unchanged.
func Format(line string) string {
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil || record == nil {
		return line
	}

	var b strings.Builder
	b.WriteString(stringField(record, "ts"))
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(stringField(record, "level")))
	b.WriteByte(' ')

	scope := stringField(record, "component")
	if stage := stringField(record, "stage"); stage != "" {
		if scope != "" {
			scope += "/"
		}
		scope += stage
	}
	if scope != "" {
		b.WriteString(scope)
		b.WriteString(": ")
	}
	b.WriteString(stringField(record, "msg"))

	keys := make([]string, 0, len(record))
	for key := range record {
		if _, skip := headerKeys[key]; !skip {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%s", key, formatValue(record[key]))
	}
	return b.String()
}

func stringField(record map[string]any, key string) string {
	if value, ok := record[key].(string); ok {
		return value
	}
	return ""
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		if v == "" || strings.ContainsAny(v, " \t\"=") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
