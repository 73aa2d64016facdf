//go:build !cgo

package csharp

import (
	"context"

	"csfmt/internal/syntax"
)

// Parser is a stub implementation for non-CGO builds.
type Parser struct{}

// NewParser creates a new C# parser.
func NewParser() *Parser {
	return &Parser{}
}

// IsAvailable returns whether parsing is available.
func IsAvailable() bool {
	return false
}

// Parse returns ErrNoCGO.
func (p *Parser) Parse(ctx context.Context, source []byte) (*syntax.Tree, error) {
	return nil, ErrNoCGO
}
