//go:build cgo

package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"csfmt/internal/syntax"
)

// converter turns a tree-sitter C# tree into syntax nodes.
type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) compilationUnit(root *sitter.Node) *syntax.Node {
	unit := &syntax.Node{Kind: syntax.KindCompilationUnit, Text: c.text(root)}
	c.fillScope(root, unit, nil)
	return unit
}

// fillScope converts the members of container into owner. Comments and
// directives become leading trivia of the next member, or trailing trivia of
// owner when no member follows. A comment that starts on the row where the
// previous member ends becomes that member's line comment.
func (c *converter) fillScope(container *sitter.Node, owner *syntax.Node, skip func(*sitter.Node) bool) {
	var pending []syntax.Trivia
	var last *syntax.Node
	lastRow := -1
	scope := owner

	visit := func(n *sitter.Node) {
		if !n.IsNamed() || (skip != nil && skip(n)) {
			return
		}
		if n.Type() == "comment" {
			text := c.text(n)
			if last != nil && last.Comment == "" && int(n.StartPoint().Row) == lastRow && !strings.Contains(text, "\n") {
				last.Comment = text
				return
			}
			pending = append(pending, syntax.Comment(text))
			return
		}

		m := c.member(n)
		m.Leading, pending = pending, nil
		switch m.Kind {
		case syntax.KindUsing:
			scope.Usings = append(scope.Usings, m)
		case syntax.KindExternAlias:
			scope.Externs = append(scope.Externs, m)
		case syntax.KindFileScopedNamespace:
			scope.Children = append(scope.Children, m)
			// Grammars that close the namespace at its ";" list the
			// namespace members as siblings.
			if len(m.Children)+len(m.Usings)+len(m.Externs) == 0 && scope.Kind == syntax.KindCompilationUnit {
				scope = m
			}
		default:
			scope.Children = append(scope.Children, m)
		}
		last, lastRow = m, int(n.EndPoint().Row)
	}
	directive := func(text string) {
		pending = append(pending, syntax.Directive(text))
	}

	c.eachChild(container, visit, directive)
	owner.Trailing = append(owner.Trailing, pending...)
}

// eachChild calls visit for every child of n. Preprocessor directives are
// reported line by line through directive; constructs nested inside a
// conditional block are visited in source order between those lines.
func (c *converter) eachChild(n *sitter.Node, visit func(*sitter.Node), directive func(string)) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if isDirective(child) {
			c.walkDirective(child, visit, directive)
			continue
		}
		visit(child)
	}
}

func (c *converter) walkDirective(d *sitter.Node, visit func(*sitter.Node), directive func(string)) {
	pos := d.StartByte()
	for i := 0; i < int(d.ChildCount()); i++ {
		child := d.Child(i)
		if child == nil || !c.isDirectiveContent(child) {
			continue
		}
		directiveLines(string(c.src[pos:child.StartByte()]), directive)
		if isDirective(child) {
			c.walkDirective(child, visit, directive)
		} else {
			visit(child)
		}
		pos = child.EndByte()
	}
	directiveLines(string(c.src[pos:d.EndByte()]), directive)
}

// isDirectiveContent reports whether a child of a directive node is code
// enclosed by the directive rather than part of the directive line itself.
func (c *converter) isDirectiveContent(n *sitter.Node) bool {
	if !n.IsNamed() {
		return false
	}
	t := n.Type()
	switch {
	case isDirective(n):
		return strings.HasPrefix(strings.TrimSpace(c.text(n)), "#")
	case t == "comment", isStatement(n), isDeclaration(n):
		return true
	}
	return false
}

func directiveLines(text string, directive func(string)) {
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			directive(line)
		}
	}
}

func isDirective(n *sitter.Node) bool {
	t := n.Type()
	if t == "using_directive" || t == "extern_alias_directive" {
		return false
	}
	return strings.HasPrefix(t, "preproc") || strings.HasSuffix(t, "_directive")
}

func isStatement(n *sitter.Node) bool {
	t := n.Type()
	return t == "block" || strings.HasSuffix(t, "_statement")
}

func isDeclaration(n *sitter.Node) bool {
	t := n.Type()
	return strings.HasSuffix(t, "_declaration") ||
		t == "using_directive" || t == "extern_alias_directive" ||
		t == "global_attribute_list" || t == "global_attribute"
}

// member converts a namespace or type member. Constructs without a
// dedicated rule, and declarations whose header holds comments or
// directives, are kept verbatim.
func (c *converter) member(n *sitter.Node) *syntax.Node {
	var m *syntax.Node
	switch n.Type() {
	case "extern_alias_directive":
		m = c.externAlias(n)
	case "using_directive":
		m = c.using(n)
	case "namespace_declaration":
		m = c.namespace(n)
	case "file_scoped_namespace_declaration":
		m = c.fileScopedNamespace(n)
	case "class_declaration", "struct_declaration", "interface_declaration",
		"record_declaration", "record_struct_declaration":
		m = c.typeDeclaration(n)
	case "field_declaration":
		m = c.field(n)
	case "constructor_declaration":
		m = c.function(n, syntax.KindConstructor)
	case "method_declaration":
		m = c.function(n, syntax.KindMethod)
	}
	if m == nil {
		return c.verbatim(n)
	}
	return m
}

func (c *converter) verbatim(n *sitter.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindVerbatim, Text: c.text(n)}
}

func (c *converter) externAlias(n *sitter.Node) *syntax.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "identifier" {
			return &syntax.Node{Kind: syntax.KindExternAlias, Name: c.text(child), Text: c.text(n)}
		}
	}
	return nil
}

func (c *converter) using(n *sitter.Node) *syntax.Node {
	u := &syntax.Node{Kind: syntax.KindUsing, Text: c.text(n)}
	var target *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "global":
			u.Global = true
		case "static":
			u.Static = true
		case "name_equals":
			if child.NamedChildCount() > 0 {
				u.Alias = c.inline(child.NamedChild(0))
			}
		case "=":
			if target != nil {
				u.Alias, target = c.inline(target), nil
			}
		case "comment":
			return nil
		default:
			if child.IsNamed() && !isDirective(child) {
				target = child
			} else if isDirective(child) {
				return nil
			}
		}
	}
	if target == nil {
		return nil
	}
	u.Name = c.inline(target)
	return u
}

func (c *converter) namespace(n *sitter.Node) *syntax.Node {
	var name, body *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch {
		case child.Type() == "declaration_list":
			body = child
		case child.Type() == "comment" || isDirective(child):
			return nil
		case name == nil:
			name = child
		}
	}
	if name == nil || body == nil {
		return nil
	}
	ns := &syntax.Node{Kind: syntax.KindNamespace, Name: c.inline(name), Text: c.text(n)}
	c.fillScope(body, ns, nil)
	return ns
}

func (c *converter) fileScopedNamespace(n *sitter.Node) *syntax.Node {
	var name *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "comment" && !isDirective(child) {
			name = child
			break
		}
	}
	if name == nil {
		return nil
	}
	ns := &syntax.Node{Kind: syntax.KindFileScopedNamespace, Name: c.inline(name), Text: c.text(n)}
	nameEnd := name.EndByte()
	c.fillScope(n, ns, func(child *sitter.Node) bool {
		return child.StartByte() < nameEnd
	})
	return ns
}

var typeKeywords = map[string]bool{
	"class":     true,
	"struct":    true,
	"interface": true,
	"record":    true,
}

func (c *converter) typeDeclaration(n *sitter.Node) *syntax.Node {
	t := &syntax.Node{Kind: syntax.KindType, Text: c.text(n)}
	var keywords []string
	var header []*sitter.Node
	var body *sitter.Node

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		typ := child.Type()
		switch {
		case typ == "attribute_list":
			t.Attributes = append(t.Attributes, c.inline(child))
		case typ == "modifier":
			t.Modifiers = append(t.Modifiers, strings.TrimSpace(c.text(child)))
		case typ == "declaration_list":
			body = child
		case !child.IsNamed() && typeKeywords[typ]:
			keywords = append(keywords, typ)
		case typ == ";":
		case body != nil:
			// Anything after the body is unexpected.
			return nil
		default:
			header = append(header, child)
		}
	}
	if body == nil || len(keywords) == 0 || len(header) == 0 || c.hasTrivia(header...) {
		return nil
	}
	t.Keyword = strings.Join(keywords, " ")
	t.Signature = c.inline(header...)
	t.Name = c.inline(header[0])
	c.fillScope(body, t, nil)
	return t
}

func (c *converter) field(n *sitter.Node) *syntax.Node {
	f := &syntax.Node{Kind: syntax.KindField, Text: c.text(n)}
	var decl *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "attribute_list":
			f.Attributes = append(f.Attributes, c.inline(child))
		case "modifier":
			f.Modifiers = append(f.Modifiers, strings.TrimSpace(c.text(child)))
		case "variable_declaration":
			decl = child
		case ";":
		default:
			return nil
		}
	}
	if decl == nil || c.hasTrivia(decl) {
		return nil
	}
	f.Signature = c.inline(decl)
	return f
}

func (c *converter) function(n *sitter.Node, kind syntax.Kind) *syntax.Node {
	fn := &syntax.Node{Kind: kind, Body: syntax.BodyNone, Text: c.text(n)}
	var header []*sitter.Node
	var block *sitter.Node

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "attribute_list":
			if len(header) > 0 {
				header = append(header, child)
				continue
			}
			fn.Attributes = append(fn.Attributes, c.inline(child))
		case "modifier":
			fn.Modifiers = append(fn.Modifiers, strings.TrimSpace(c.text(child)))
		case "block":
			block = child
			fn.Body = syntax.BodyBlock
		case "arrow_expression_clause":
			expr := arrowExpression(child)
			if len(expr) == 0 || c.hasTrivia(expr...) {
				return nil
			}
			fn.Body = syntax.BodyArrow
			fn.Arrow = c.inline(expr...)
		case ";":
		default:
			if block != nil || fn.Body == syntax.BodyArrow {
				return nil
			}
			header = append(header, child)
		}
	}
	if len(header) == 0 || c.hasTrivia(header...) {
		return nil
	}
	fn.Signature = c.inline(header...)
	if block != nil {
		c.fillBlock(block, fn)
	}
	return fn
}

// arrowExpression returns the children of an arrow clause after "=>".
func arrowExpression(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	seen := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "=>" {
			seen = true
			continue
		}
		if seen {
			out = append(out, child)
		}
	}
	return out
}

// fillBlock converts the statements of a method or constructor body.
func (c *converter) fillBlock(block *sitter.Node, owner *syntax.Node) {
	var pending []syntax.Trivia
	var last *syntax.Node
	lastRow := -1

	visit := func(n *sitter.Node) {
		if !n.IsNamed() {
			return
		}
		if n.Type() == "comment" {
			text := c.text(n)
			if last != nil && last.Comment == "" && int(n.StartPoint().Row) == lastRow && !strings.Contains(text, "\n") {
				last.Comment = text
				return
			}
			pending = append(pending, syntax.Comment(text))
			return
		}
		stmt := &syntax.Node{Kind: syntax.KindStatement, Text: c.text(n), Lines: c.lines(n)}
		stmt.Leading, pending = pending, nil
		owner.Children = append(owner.Children, stmt)
		last, lastRow = stmt, int(n.EndPoint().Row)
	}
	directive := func(text string) {
		pending = append(pending, syntax.Directive(text))
	}

	c.eachChild(block, visit, directive)
	owner.Trailing = append(owner.Trailing, pending...)
}

// hasTrivia reports whether any of nodes contains a comment or directive.
// Such headers cannot be joined onto one line.
func (c *converter) hasTrivia(nodes ...*sitter.Node) bool {
	for _, n := range nodes {
		if n.Type() == "comment" || isDirective(n) {
			return true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil && c.hasTrivia(child) {
				return true
			}
		}
	}
	return false
}
