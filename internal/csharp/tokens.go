//go:build cgo

package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"csfmt/internal/syntax"
)

// token is a leaf of the concrete tree with the type of its parent, which
// decides the spacing around punctuation such as "<" or "?".
type token struct {
	text   string
	typ    string
	parent string
}

// atomic node types are emitted as a single token even when the grammar
// gives them children.
var atomic = map[string]bool{
	"identifier":                     true,
	"predefined_type":                true,
	"string_literal":                 true,
	"verbatim_string_literal":        true,
	"raw_string_literal":             true,
	"character_literal":              true,
	"interpolated_string_expression": true,
	"interpolated_verbatim_string":   true,
	"integer_literal":                true,
	"real_literal":                   true,
	"boolean_literal":                true,
	"null_literal":                   true,
	"comment":                        true,
}

// inline renders nodes as one line of canonically spaced tokens.
func (c *converter) inline(nodes ...*sitter.Node) string {
	var toks []token
	for _, n := range nodes {
		parent := ""
		if p := n.Parent(); p != nil {
			parent = p.Type()
		}
		toks = c.collect(toks, n, parent)
	}
	return join(toks)
}

func (c *converter) collect(toks []token, n *sitter.Node, parent string) []token {
	typ := n.Type()
	if atomic[typ] || n.ChildCount() == 0 {
		text := strings.TrimSpace(c.text(n))
		if text == "" {
			return toks
		}
		return append(toks, token{text: text, typ: typ, parent: parent})
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil {
			toks = c.collect(toks, child, typ)
		}
	}
	return toks
}

func join(toks []token) string {
	var sb strings.Builder
	for i, tok := range toks {
		if i > 0 && spaced(toks[i-1], tok) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.text)
	}
	return sb.String()
}

func isTypeList(parent string) bool {
	return parent == "type_argument_list" || parent == "type_parameter_list"
}

// tightColon lists the constructs whose ":" attaches to the preceding token:
// named arguments, property subpatterns, labels and attribute targets.
var tightColon = map[string]bool{
	"argument":                    true,
	"attribute_argument":          true,
	"subpattern":                  true,
	"labeled_statement":           true,
	"switch_section":              true,
	"attribute_target_specifier":  true,
	"interpolation_format_clause": true,
}

// tightCallee lists keywords written directly before "(".
var tightCallee = map[string]bool{
	"this":       true, "base": true, "typeof": true, "sizeof": true, "nameof": true,
	"default":    true, "checked": true, "unchecked": true, "new": true,
	"stackalloc": true, "__makeref": true, "__reftype": true, "__refvalue": true,
}

// spaced reports whether a space separates prev and next.
func spaced(prev, next token) bool {
	switch next.text {
	case ",", ";", ")", "]", ".", "?.", "::", "->", "..":
		return false
	case "(":
		return !tightBeforeParen(prev)
	case "[":
		return !tightBeforeBracket(prev)
	case "<", ">":
		if isTypeList(next.parent) {
			return false
		}
	case "?":
		if next.parent == "nullable_type" || next.parent == "conditional_access_expression" {
			return false
		}
	case ":":
		if tightColon[next.parent] {
			return false
		}
	case "++", "--", "!":
		if next.parent == "postfix_unary_expression" {
			return false
		}
	case "*":
		if next.parent == "pointer_type" {
			return false
		}
	}

	switch prev.text {
	case "(", "[", ".", "?.", "::", "->", "..", "~":
		return false
	case "<":
		if isTypeList(prev.parent) {
			return false
		}
	case "!", "-", "+", "++", "--", "&", "*", "^":
		if prev.parent == "prefix_unary_expression" {
			return false
		}
	case "?":
		if prev.parent == "conditional_access_expression" {
			return false
		}
	case ")":
		if prev.parent == "cast_expression" {
			return false
		}
	}
	return true
}

func tightBeforeParen(prev token) bool {
	switch {
	case prev.typ == "identifier":
		return true
	case prev.text == ")" || prev.text == "]":
		return true
	case prev.text == ">" && isTypeList(prev.parent):
		return true
	}
	return tightCallee[prev.text]
}

func tightBeforeBracket(prev token) bool {
	switch prev.typ {
	case "identifier", "predefined_type":
		return true
	}
	switch prev.text {
	case ")", "]", "?", "this", "base", "new", "stackalloc":
		return true
	case ">":
		return isTypeList(prev.parent)
	}
	return false
}

// embeds lists statements whose non-block child statement is written on its
// own line one level deeper.
var embeds = map[string]bool{
	"if_statement":       true,
	"else_clause":        true,
	"while_statement":    true,
	"do_statement":       true,
	"for_statement":      true,
	"for_each_statement": true,
	"foreach_statement":  true,
	"using_statement":    true,
	"lock_statement":     true,
	"fixed_statement":    true,
	"checked_statement":  true,
	"unsafe_statement":   true,
}

// layout lays out a statement as physical lines. Blocks put their braces on
// lines of their own, embedded statements are indented, and directives are
// written at column 0.
type layout struct {
	c      *converter
	lines  []syntax.Line
	cur    []token
	depth  int
	closed bool
}

func (c *converter) lines(n *sitter.Node) []syntax.Line {
	l := &layout{c: c}
	l.walk(n, "")
	l.flush()
	return l.lines
}

func (l *layout) flush() {
	if len(l.cur) > 0 {
		l.lines = append(l.lines, syntax.Line{Depth: l.depth, Text: join(l.cur)})
		l.cur = nil
	}
	l.closed = false
}

func (l *layout) add(tok token) {
	// After a closing brace only list punctuation continues the line.
	if l.closed {
		switch tok.text {
		case ")", ";", ",", ".":
			l.closed = false
		default:
			l.flush()
		}
	}
	l.cur = append(l.cur, tok)
}

func (l *layout) emit(text string, flush bool) {
	l.flush()
	l.lines = append(l.lines, syntax.Line{Depth: l.depth, Text: text, Flush: flush})
}

func (l *layout) walk(n *sitter.Node, parent string) {
	typ := n.Type()
	switch {
	case typ == "block" || typ == "switch_body" || typ == "switch_block":
		l.block(n)
		return
	case typ == "switch_section":
		l.section(n)
		return
	case typ == "comment":
		text := strings.TrimSpace(l.c.text(n))
		if strings.HasPrefix(text, "//") {
			l.add(token{text: text, typ: typ, parent: parent})
			l.flush()
			return
		}
	case isDirective(n):
		l.c.walkDirective(n, func(child *sitter.Node) {
			l.flush()
			l.walk(child, typ)
			l.flush()
		}, func(text string) {
			l.emit(text, true)
		})
		return
	}
	if atomic[typ] || n.ChildCount() == 0 {
		if text := strings.TrimSpace(l.c.text(n)); text != "" {
			l.add(token{text: text, typ: typ, parent: parent})
		}
		return
	}

	var prev *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if embeds[typ] && isStatement(child) && child.Type() != "block" &&
			!(child.Type() == "if_statement" && prev != nil && prev.Type() == "else") {
			l.flush()
			l.depth++
			l.walk(child, typ)
			l.flush()
			l.depth--
		} else {
			l.walk(child, typ)
		}
		prev = child
	}
}

// block writes "{" and "}" on their own lines with the contents one level
// deeper. The closing brace stays open for trailing ")" or ";".
func (l *layout) block(n *sitter.Node) {
	l.emit("{", false)
	l.depth++
	lastRow := -1
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		if child.Type() == "comment" && int(child.StartPoint().Row) == lastRow && len(l.lines) > 0 {
			text := strings.TrimSpace(l.c.text(child))
			if !strings.Contains(text, "\n") {
				l.lines[len(l.lines)-1].Text += " " + text
				continue
			}
		}
		l.flush()
		l.walk(child, n.Type())
		l.flush()
		lastRow = int(child.EndPoint().Row)
	}
	l.depth--
	l.flush()
	l.cur = []token{{text: "}", typ: "}", parent: n.Type()}}
	l.closed = true
}

// section writes switch labels on their own lines and the section's
// statements one level deeper.
func (l *layout) section(n *sitter.Node) {
	l.flush()
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if isStatement(child) {
			l.flush()
			l.depth++
			l.walk(child, n.Type())
			l.flush()
			l.depth--
			continue
		}
		l.walk(child, n.Type())
		if child.Type() == ":" || strings.HasSuffix(child.Type(), "_label") {
			l.flush()
		}
	}
	l.flush()
}
