package format

import "csfmt/internal/syntax"

// printMembers renders the members of one body in source order. Members are
// separated by one blank line, except between two consecutive fields.
func (p *printer) printMembers(members []*syntax.Node) {
	var prev *syntax.Node
	for _, m := range members {
		gap := prev != nil && needsBlankLine(prev, m)
		p.printLeading(m.Leading, gap)
		p.printNode(m)
		prev = m
	}
}

func needsBlankLine(prev, next *syntax.Node) bool {
	return !(prev.IsField() && next.IsField())
}

// printLeading writes a member's leading trivia around the separating blank
// line. Directives up to the first comment close the previous region, so
// they come before the gap; the rest stays attached to the member.
func (p *printer) printLeading(trivia []syntax.Trivia, gap bool) {
	split := 0
	for split < len(trivia) && trivia[split].Kind == syntax.TriviaDirective {
		split++
	}
	p.printTrivia(trivia[:split])
	if gap {
		p.b.BlankLine()
	}
	p.printTrivia(trivia[split:])
}
