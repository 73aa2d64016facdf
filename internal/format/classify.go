package format

import "csfmt/internal/syntax"

// Strategy is how the printer renders a node kind.
type Strategy int

const (
	// PassThrough copies the node's source text unchanged.
	PassThrough Strategy = iota
	// Structural renders a header and a braced, indented body recursively.
	Structural
	// Leaf renders a single normalized declaration or statement.
	Leaf
)

func (s Strategy) String() string {
	switch s {
	case PassThrough:
		return "pass-through"
	case Structural:
		return "structural"
	case Leaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Classify maps a node kind to its rendering strategy. Every syntax.Kind has
// a case; an unknown kind is a contract violation.
func Classify(k syntax.Kind) Strategy {
	switch k {
	case syntax.KindCompilationUnit,
		syntax.KindNamespace,
		syntax.KindFileScopedNamespace,
		syntax.KindType,
		syntax.KindConstructor,
		syntax.KindMethod:
		return Structural
	case syntax.KindExternAlias,
		syntax.KindUsing,
		syntax.KindField,
		syntax.KindStatement:
		return Leaf
	case syntax.KindVerbatim:
		return PassThrough
	}
	violate("unclassified node kind %v", k)
	return PassThrough
}
