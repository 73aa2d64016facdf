// Package testutil provides testing utilities for golden tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Fixture is one golden test case: an input source file and the path of
// its expected output.
type Fixture struct {
	// Name is the input file name without extension.
	Name string

	// Input is the raw content of the input file.
	Input []byte

	// GoldenPath is the path of the expected output, next to the input.
	GoldenPath string
}

// LoadFixtures loads every file with extension ext from dir, sorted by name,
// failing the test on error. Golden files use the ".golden" extension.
func LoadFixtures(t *testing.T, dir, ext string) []Fixture {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read fixture directory: %v", err)
	}

	var fixtures []Fixture
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) || filepath.Ext(entry.Name()) != ext {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		input, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read fixture %s: %v", path, err)
		}

		name := strings.TrimSuffix(entry.Name(), ext)
		fixtures = append(fixtures, Fixture{
			Name:       name,
			Input:      input,
			GoldenPath: filepath.Join(dir, name+".golden"),
		})
	}

	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].Name < fixtures[j].Name })
	return fixtures
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
