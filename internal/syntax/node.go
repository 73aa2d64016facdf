// Package syntax defines the read-only syntax tree consumed by the formatter.
// Trees are produced by a parser adapter (see internal/csharp) and are never
// mutated after construction.
package syntax

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	KindCompilationUnit Kind = iota
	KindExternAlias
	KindUsing
	KindNamespace
	KindFileScopedNamespace
	KindType
	KindField
	KindConstructor
	KindMethod
	KindStatement
	// KindVerbatim marks a construct without a dedicated formatting rule.
	// Its Text is re-emitted unchanged.
	KindVerbatim
)

var kindNames = [...]string{
	KindCompilationUnit:     "compilation-unit",
	KindExternAlias:         "extern-alias",
	KindUsing:               "using",
	KindNamespace:           "namespace",
	KindFileScopedNamespace: "file-scoped-namespace",
	KindType:                "type",
	KindField:               "field",
	KindConstructor:         "constructor",
	KindMethod:              "method",
	KindStatement:           "statement",
	KindVerbatim:            "verbatim",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// BodyKind describes how a constructor or method body is written.
type BodyKind int

const (
	// BodyBlock is a braced statement block.
	BodyBlock BodyKind = iota
	// BodyArrow is an expression body: "=> expr;".
	BodyArrow
	// BodyNone is a declaration terminated by ";" (abstract, extern, interface).
	BodyNone
)

// TriviaKind classifies non-semantic source text attached to a node.
type TriviaKind int

const (
	TriviaComment TriviaKind = iota
	TriviaDirective
)

// Trivia is a comment or preprocessor directive kept verbatim.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// Comment returns comment trivia.
func Comment(text string) Trivia { return Trivia{Kind: TriviaComment, Text: text} }

// Directive returns preprocessor directive trivia.
func Directive(text string) Trivia { return Trivia{Kind: TriviaDirective, Text: text} }

// Line is one physical line of normalized statement text. Depth is relative
// to the statement's own indentation; Flush lines are written at column 0.
type Line struct {
	Depth int
	Text  string
	Flush bool
}

// Node is a single syntax tree node.
type Node struct {
	Kind Kind

	// Name is the dotted name of a using target, namespace, extern alias or
	// declared type.
	Name string
	// Alias is the alias of "using A = B;".
	Alias string
	// Static is set for "using static".
	Static bool
	// Global is set for "global using".
	Global bool

	// Keyword is the type keyword: class, struct, interface or record.
	Keyword string
	// Modifiers are in source order; the formatter canonicalizes them.
	Modifiers []string
	// Attributes are normalized attribute lists, one per entry.
	Attributes []string
	// Signature is the normalized declaration text without modifiers:
	// "int X" for a field, "void M(int a)" for a method, "Point<T> : IPoint"
	// for a type.
	Signature string
	Body      BodyKind
	// Arrow is the normalized expression of a BodyArrow member.
	Arrow string

	// Text is the original source text of the node.
	Text string
	// Lines is the normalized rendering of a statement.
	Lines []Line

	Externs  []*Node
	Usings   []*Node
	Children []*Node

	// Leading trivia precede the node. Trailing trivia follow the last child
	// of a body, before its closing brace or the end of file.
	Leading  []Trivia
	Trailing []Trivia
	// Comment is a comment written on the node's last line.
	Comment string
}

// Normalized returns the node's text with incidental whitespace collapsed.
// Parser adapters that know token boundaries fill Lines instead.
func (n *Node) Normalized() []Line {
	if len(n.Lines) > 0 {
		return n.Lines
	}
	if n.Text == "" {
		return nil
	}
	return []Line{{Text: Normalize(n.Text)}}
}

// Normalize collapses runs of whitespace to single spaces and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// IsField reports whether the node is a field declaration.
func (n *Node) IsField() bool {
	return n != nil && n.Kind == KindField
}
