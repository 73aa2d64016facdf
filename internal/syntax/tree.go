package syntax

import "fmt"

// Severity of a parser diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a problem reported by the parser. Line and Column are 1-based.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

// Tree is a parsed source file.
type Tree struct {
	Root        *Node
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic has error severity.
func (t *Tree) HasErrors() bool {
	for _, d := range t.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics.
func (t *Tree) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, d := range t.Diagnostics {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errs
}
