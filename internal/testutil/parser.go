package testutil

import (
	"context"
	"strings"

	"csfmt/internal/syntax"
)

// LineParser is a stand-in for the C# parser that understands one
// declaration per line: "using Name;" and "class Name". Lines holding only
// braces are ignored and anything else is reported as a syntax error.
type LineParser struct {
	// Err, when set, is returned by every Parse call.
	Err error
}

// Parse implements the parser interface consumed by the workspace runner.
func (p LineParser) Parse(_ context.Context, source []byte) (*syntax.Tree, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	root := &syntax.Node{Kind: syntax.KindCompilationUnit, Text: string(source)}
	tree := &syntax.Tree{Root: root}
	for i, line := range strings.Split(string(source), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] == "{" || fields[0] == "}" {
			continue
		}
		switch {
		case fields[0] == "using" && len(fields) == 2:
			root.Usings = append(root.Usings, &syntax.Node{Kind: syntax.KindUsing, Name: strings.TrimSuffix(fields[1], ";")})
		case fields[0] == "class" && len(fields) == 2:
			root.Children = append(root.Children, &syntax.Node{Kind: syntax.KindType, Keyword: "class", Signature: fields[1]})
		default:
			tree.Diagnostics = append(tree.Diagnostics, syntax.Diagnostic{
				Severity: syntax.SeverityError,
				Message:  "unexpected " + fields[0],
				Line:     i + 1,
				Column:   1,
			})
		}
	}
	return tree, nil
}

// CanonicalLineSource is the formatted form of "using System;" followed by
// "class A" under the default style.
const CanonicalLineSource = "\nusing System;\n\nclass A\n{\n}\n"
