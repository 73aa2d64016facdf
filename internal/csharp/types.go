// Package csharp parses C# source with tree-sitter and converts the concrete
// syntax tree into the read-only syntax model used by the formatter.
package csharp

import (
	"errors"
	"strings"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("C# parsing requires CGO (tree-sitter)")

// Extensions lists the file extensions handled as C# source.
var Extensions = []string{".cs", ".csx"}

// IsSourceFile reports whether path has a C# extension.
func IsSourceFile(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
