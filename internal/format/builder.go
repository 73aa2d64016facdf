package format

import (
	"fmt"
	"strings"
)

// contractViolation is raised (via panic) when the renderer breaks one of its
// own invariants. Format recovers it into an INTERNAL_ERROR.
type contractViolation struct {
	msg string
}

func (c contractViolation) Error() string { return "contract violation: " + c.msg }

func violate(format string, args ...any) {
	panic(contractViolation{msg: fmt.Sprintf(format, args...)})
}

// Builder accumulates formatted output. Indentation is written lazily, once,
// by the first non-empty write on each physical line.
type Builder struct {
	unit        string
	buf         strings.Builder
	level       int
	atLineStart bool
}

// NewBuilder creates a Builder that indents with unit per level.
func NewBuilder(unit string) *Builder {
	return &Builder{unit: unit, atLineStart: true}
}

// Level returns the current indent level.
func (b *Builder) Level() int { return b.level }

// Indent increases the indent level.
func (b *Builder) Indent() { b.level++ }

// Dedent decreases the indent level. Dedenting below zero is a contract
// violation.
func (b *Builder) Dedent() {
	if b.level == 0 {
		violate("dedent below zero")
	}
	b.level--
}

func (b *Builder) writeIndent() {
	if !b.atLineStart {
		return
	}
	for range b.level {
		b.buf.WriteString(b.unit)
	}
	b.atLineStart = false
}

// Append writes text at the current position. Text must not contain line
// breaks; use AppendLine or Raw for those.
func (b *Builder) Append(text string) {
	if text == "" {
		return
	}
	if strings.ContainsAny(text, "\r\n") {
		violate("append of multi-line text %q", text)
	}
	b.writeIndent()
	b.buf.WriteString(text)
}

// AppendLine writes text and terminates the line.
func (b *Builder) AppendLine(text string) {
	b.Append(text)
	b.Newline()
}

// Newline terminates the current line.
func (b *Builder) Newline() {
	b.buf.WriteByte('\n')
	b.atLineStart = true
}

// BlankLine writes an empty line. A pending partial line is terminated first.
func (b *Builder) BlankLine() {
	if !b.atLineStart {
		b.Newline()
	}
	b.Newline()
}

// FlushLine writes text at column 0 regardless of the indent level.
func (b *Builder) FlushLine(text string) {
	if !b.atLineStart {
		b.Newline()
	}
	b.Raw(text)
	b.Newline()
}

// Raw writes text without indentation bookkeeping.
func (b *Builder) Raw(text string) {
	if text == "" {
		return
	}
	b.buf.WriteString(text)
	b.atLineStart = text[len(text)-1] == '\n'
}

// String returns the accumulated output.
func (b *Builder) String() string {
	return b.buf.String()
}
