//go:build cgo

package csharp

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"csfmt/internal/syntax"
)

// Parser parses C# source into syntax trees. A Parser is safe for concurrent
// use; each call gets its own tree-sitter parser.
type Parser struct {
	lang *sitter.Language
}

// NewParser creates a new C# parser.
func NewParser() *Parser {
	return &Parser{lang: csharp.GetLanguage()}
}

// IsAvailable returns whether parsing is available.
func IsAvailable() bool {
	return true
}

// Parse parses source and converts it into a syntax tree. Syntax errors are
// reported as diagnostics on the tree, not as an error.
func (p *Parser) Parse(ctx context.Context, source []byte) (*syntax.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	root := tree.RootNode()
	result := &syntax.Tree{Diagnostics: diagnostics(root, source)}
	if len(result.Diagnostics) > 0 {
		return result, nil
	}

	c := &converter{src: source}
	result.Root = c.compilationUnit(root)
	return result, nil
}

// diagnostics collects ERROR and missing nodes as error diagnostics.
func diagnostics(root *sitter.Node, source []byte) []syntax.Diagnostic {
	if !root.HasError() {
		return nil
	}

	var diags []syntax.Diagnostic
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			diags = append(diags, diagnosticAt(n, "missing "+n.Type()))
			return
		case n.Type() == "ERROR":
			diags = append(diags, diagnosticAt(n, fmt.Sprintf("unexpected %q", excerpt(n.Content(source)))))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child != nil && (child.HasError() || child.IsMissing()) {
				walk(child)
			}
		}
	}
	walk(root)

	if len(diags) == 0 {
		diags = append(diags, diagnosticAt(root, "syntax error"))
	}
	return diags
}

func diagnosticAt(n *sitter.Node, msg string) syntax.Diagnostic {
	pt := n.StartPoint()
	return syntax.Diagnostic{
		Severity: syntax.SeverityError,
		Message:  msg,
		Line:     int(pt.Row) + 1,
		Column:   int(pt.Column) + 1,
	}
}

func excerpt(s string) string {
	const max = 40
	s = syntax.Normalize(s)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
