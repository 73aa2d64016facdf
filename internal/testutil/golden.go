package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -run TestGolden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// CompareGolden compares got against the golden file at path, failing with a
// diff on mismatch. Line endings are normalized on both sides.
// If -update flag is set, updates the golden file instead of comparing.
func CompareGolden(t *testing.T, path string, got []byte) {
	t.Helper()

	got = NormalizeNewlines(got)

	if *updateGolden {
		UpdateGolden(t, path, got)
		t.Logf("Updated golden: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				path, string(got), t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}
	expected = NormalizeNewlines(expected)

	if !bytes.Equal(got, expected) {
		diff := unifiedDiff(string(expected), string(got), path)
		t.Fatalf("Golden mismatch for %s:\n%s\n\nRun with -update to refresh:\n  go test ./... -run %s -update",
			filepath.Base(path), diff, t.Name())
	}
}

// UpdateGolden writes data to the golden file.
// Creates parent directories if they don't exist.
func UpdateGolden(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create golden directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write golden file: %v", err)
	}
}

// unifiedDiff produces a line-by-line diff between two strings. Whitespace
// differences are made visible.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer

	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	for i := 0; i < max(len(expectedLines), len(gotLines)); i++ {
		var expLine, gotLine string
		hasExp, hasGot := i < len(expectedLines), i < len(gotLines)
		if hasExp {
			expLine = expectedLines[i]
		}
		if hasGot {
			gotLine = gotLines[i]
		}
		if hasExp && hasGot && expLine == gotLine {
			continue
		}

		fmt.Fprintf(&buf, "@@ line %d @@\n", i+1)
		if hasExp {
			buf.WriteString("-" + visible(expLine) + "\n")
		}
		if hasGot {
			buf.WriteString("+" + visible(gotLine) + "\n")
		}
	}

	return buf.String()
}

func visible(line string) string {
	return strings.NewReplacer("\t", "→", "\r", "␍").Replace(line) + "¶"
}
