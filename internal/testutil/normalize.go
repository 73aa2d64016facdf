package testutil

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"testing"
)

// NormalizeNewlines converts CRLF line endings to LF.
func NormalizeNewlines(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
}

// volatileFields are report fields that change between runs.
var volatileFields = map[string]bool{
	"runId":      true,
	"startedAt":  true,
	"duration":   true,
	"durationMs": true,
}

// NormalizeReport decodes a JSON report and strips volatile fields so two
// runs over the same input compare equal. Paths use forward slashes and
// slices of objects are sorted by their "path" key.
func NormalizeReport(t *testing.T, data []byte) any {
	t.Helper()

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("Failed to decode report: %v\n%s", err, data)
	}
	return normalizeValue(v)
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if volatileFields[k] {
				continue
			}
			out[k] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		sort.SliceStable(out, func(i, j int) bool {
			return pathKey(out[i]) < pathKey(out[j])
		})
		return out
	case string:
		return strings.ReplaceAll(val, "\\", "/")
	default:
		return v
	}
}

func pathKey(v any) string {
	if m, ok := v.(map[string]any); ok {
		if p, ok := m["path"].(string); ok {
			return p
		}
	}
	return ""
}
