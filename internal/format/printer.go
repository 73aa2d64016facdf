package format

import (
	"fmt"
	"strings"

	fmterrors "csfmt/internal/errors"
	"csfmt/internal/syntax"
)

// Formatter renders syntax trees in a fixed house style.
type Formatter struct {
	style     Style
	modifiers ModifierOrder
	unit      string
}

// New creates a Formatter. Zero fields of style take their defaults.
func New(style Style) (*Formatter, error) {
	style = style.withDefaults()
	if err := style.Validate(); err != nil {
		return nil, fmterrors.New(fmterrors.ConfigInvalid, "invalid style", err)
	}
	return &Formatter{
		style:     style,
		modifiers: NewModifierOrder(style.ModifierOrder),
		unit:      style.indentUnit(),
	}, nil
}

// Style returns the formatter's effective style.
func (f *Formatter) Style() Style {
	return f.style
}

// Format renders tree in canonical form. Trees carrying error diagnostics are
// refused with SYNTAX_INVALID; no partial output is produced.
func (f *Formatter) Format(tree *syntax.Tree) (out string, err error) {
	if tree == nil {
		return "", fmterrors.New(fmterrors.InternalError, "nil syntax tree", nil)
	}
	// Parsers may leave Root unset once they report errors.
	if errs := tree.Errors(); len(errs) > 0 {
		return "", fmterrors.New(fmterrors.SyntaxInvalid,
			fmt.Sprintf("input has %d syntax error(s); first at %s", len(errs), errs[0]), nil).
			WithDetails(errs)
	}
	if tree.Root == nil {
		return "", fmterrors.New(fmterrors.InternalError, "syntax tree has no root", nil)
	}
	if tree.Root.Kind != syntax.KindCompilationUnit {
		return "", fmterrors.New(fmterrors.InternalError,
			fmt.Sprintf("tree root is a %v node", tree.Root.Kind), nil)
	}

	defer func() {
		if r := recover(); r != nil {
			cv, ok := r.(contractViolation)
			if !ok {
				panic(r)
			}
			out, err = "", fmterrors.New(fmterrors.InternalError, "formatter defect", cv)
		}
	}()

	p := &printer{f: f, b: NewBuilder(f.unit)}
	p.printNode(tree.Root)
	if p.b.Level() != 0 {
		violate("indent level %d at end of file", p.b.Level())
	}
	return p.b.String(), nil
}

// printer holds the state of a single Format call.
type printer struct {
	f *Formatter
	b *Builder
}

func (p *printer) printNode(n *syntax.Node) {
	switch Classify(n.Kind) {
	case PassThrough:
		p.printVerbatim(n)
	case Leaf:
		p.printLeaf(n)
	case Structural:
		p.printStructural(n)
	}
}

func (p *printer) printStructural(n *syntax.Node) {
	switch n.Kind {
	case syntax.KindCompilationUnit:
		p.printCompilationUnit(n)
	case syntax.KindNamespace:
		p.printNamespace(n)
	case syntax.KindFileScopedNamespace:
		p.printFileScopedNamespace(n)
	case syntax.KindType:
		p.printType(n)
	case syntax.KindConstructor, syntax.KindMethod:
		p.printFunction(n)
	default:
		violate("%v node classified as structural", n.Kind)
	}
}

func (p *printer) printLeaf(n *syntax.Node) {
	switch n.Kind {
	case syntax.KindExternAlias:
		p.b.AppendLine(withComment("extern alias "+n.Name+";", n))
	case syntax.KindUsing:
		p.b.AppendLine(withComment(usingText(n), n))
	case syntax.KindField:
		p.printField(n)
	case syntax.KindStatement:
		p.printStatement(n)
	default:
		violate("%v node classified as leaf", n.Kind)
	}
}

func (p *printer) printCompilationUnit(n *syntax.Node) {
	if len(n.Externs) > 0 {
		p.b.BlankLine()
		for i, ext := range n.Externs {
			if i > 0 {
				p.b.BlankLine()
			}
			p.printTrivia(ext.Leading)
			p.printNode(ext)
		}
	}

	if len(n.Usings) > 0 {
		p.b.BlankLine()
		usings := n.Usings
		if len(n.Externs) == 0 {
			var header []syntax.Trivia
			header, usings = fileHeader(usings)
			p.printTrivia(header)
		}
		p.printUsings(usings)
	}

	p.b.BlankLine()
	p.printMembers(n.Children)
	p.printTrivia(n.Trailing)
}

func (p *printer) printUsings(usings []*syntax.Node) {
	for _, u := range GroupDirectives(usings, p.f.style.StandardPrefix).Ordered() {
		p.printTrivia(u.Leading)
		p.printNode(u)
	}
}

// fileHeader detaches the comments leading the first using, so that sorting
// leaves a file header at the top. The input nodes are not modified.
func fileHeader(usings []*syntax.Node) ([]syntax.Trivia, []*syntax.Node) {
	first := usings[0]
	n := 0
	for n < len(first.Leading) && first.Leading[n].Kind == syntax.TriviaComment {
		n++
	}
	if n == 0 {
		return nil, usings
	}
	rest := *first
	rest.Leading = first.Leading[n:]
	out := make([]*syntax.Node, 0, len(usings))
	out = append(out, &rest)
	out = append(out, usings[1:]...)
	return first.Leading[:n], out
}

// printScopeDirectives writes the externs and usings declared inside a
// namespace, followed by a blank line when members come after them.
func (p *printer) printScopeDirectives(n *syntax.Node) {
	for _, ext := range n.Externs {
		p.printTrivia(ext.Leading)
		p.printNode(ext)
	}
	p.printUsings(n.Usings)
	if len(n.Externs)+len(n.Usings) > 0 && len(n.Children) > 0 {
		p.b.BlankLine()
	}
}

func (p *printer) printNamespace(n *syntax.Node) {
	p.b.AppendLine("namespace " + n.Name)
	p.printBody(n)
}

func (p *printer) printFileScopedNamespace(n *syntax.Node) {
	p.b.AppendLine(withComment("namespace "+n.Name+";", n))
	if len(n.Externs)+len(n.Usings)+len(n.Children) > 0 {
		p.b.BlankLine()
	}
	p.printScopeDirectives(n)
	p.printMembers(n.Children)
	p.printTrivia(n.Trailing)
}

func (p *printer) printType(n *syntax.Node) {
	p.printAttributes(n)
	p.appendText(p.header(n, n.Keyword+" "+n.Signature))
	p.printBody(n)
}

// printBody writes "{", the indented members and "}". The indent is balanced
// before the closing brace is written.
func (p *printer) printBody(n *syntax.Node) {
	p.b.AppendLine("{")
	p.b.Indent()
	p.printScopeDirectives(n)
	p.printMembers(n.Children)
	p.printTrivia(n.Trailing)
	p.b.Dedent()
	p.b.AppendLine(withComment("}", n))
}

func (p *printer) printField(n *syntax.Node) {
	p.printAttributes(n)
	p.appendText(withComment(p.header(n, n.Signature)+";", n))
}

func (p *printer) printFunction(n *syntax.Node) {
	p.printAttributes(n)
	head := p.header(n, n.Signature)
	switch n.Body {
	case syntax.BodyNone:
		p.appendText(withComment(head+";", n))
	case syntax.BodyArrow:
		p.appendText(withComment(head+" => "+n.Arrow+";", n))
	case syntax.BodyBlock:
		p.appendText(head)
		p.b.AppendLine("{")
		p.b.Indent()
		for _, stmt := range n.Children {
			p.printTrivia(stmt.Leading)
			p.printNode(stmt)
		}
		p.printTrivia(n.Trailing)
		p.b.Dedent()
		p.b.AppendLine(withComment("}", n))
	default:
		violate("unknown body kind %d", n.Body)
	}
}

func (p *printer) printStatement(n *syntax.Node) {
	lines := n.Normalized()
	for i, line := range lines {
		text := line.Text
		if i == len(lines)-1 {
			text = withComment(text, n)
		}
		if line.Flush {
			p.b.FlushLine(text)
			continue
		}
		for range line.Depth {
			p.b.Indent()
		}
		p.appendText(text)
		for range line.Depth {
			p.b.Dedent()
		}
	}
}

// printVerbatim re-emits unsupported constructs unchanged. Only the first
// line is re-indented; continuation lines keep their source layout.
func (p *printer) printVerbatim(n *syntax.Node) {
	text := strings.ReplaceAll(n.Text, "\r\n", "\n")
	text = strings.TrimRight(strings.TrimLeft(text, " \t\r\n"), "\r\n")
	first, rest, multi := strings.Cut(text, "\n")
	p.b.AppendLine(withComment(strings.TrimRight(first, " \t"), n))
	if multi {
		for _, line := range strings.Split(rest, "\n") {
			p.b.Raw(strings.TrimRight(line, " \t"))
			p.b.Newline()
		}
	}
}

func (p *printer) printAttributes(n *syntax.Node) {
	for _, attr := range n.Attributes {
		p.appendText(attr)
	}
}

// appendText writes a line of node text at the current indent. Text spans
// several lines only inside a multi-line literal or block comment; those
// continuation lines are written exactly as in the source.
func (p *printer) appendText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	first, rest, multi := strings.Cut(text, "\n")
	p.b.AppendLine(first)
	if !multi {
		return
	}
	for _, line := range strings.Split(rest, "\n") {
		p.b.Raw(line)
		p.b.Newline()
	}
}

// header joins the canonical modifiers and the rest of a declaration line.
func (p *printer) header(n *syntax.Node, rest string) string {
	mods := p.f.modifiers.Sort(n.Modifiers)
	if len(mods) == 0 {
		return rest
	}
	return strings.Join(mods, " ") + " " + rest
}

func (p *printer) printTrivia(trivia []syntax.Trivia) {
	for _, t := range trivia {
		p.printOneTrivia(t)
	}
}

func (p *printer) printOneTrivia(t syntax.Trivia) {
	switch t.Kind {
	case syntax.TriviaDirective:
		p.b.FlushLine(strings.TrimSpace(t.Text))
	case syntax.TriviaComment:
		text := strings.ReplaceAll(strings.TrimSpace(t.Text), "\r\n", "\n")
		first, rest, multi := strings.Cut(text, "\n")
		p.b.AppendLine(first)
		if multi {
			for _, line := range strings.Split(rest, "\n") {
				p.b.Raw(strings.TrimRight(line, " \t"))
				p.b.Newline()
			}
		}
	default:
		violate("unknown trivia kind %d", t.Kind)
	}
}

func withComment(line string, n *syntax.Node) string {
	if n.Comment == "" {
		return line
	}
	return line + " " + strings.TrimSpace(n.Comment)
}
