package format

import "sort"

// ModifierOrder ranks declaration modifiers. It is built once from a Style
// and is read-only afterwards.
type ModifierOrder struct {
	rank map[string]int
}

// NewModifierOrder builds an order from keywords listed first to last.
func NewModifierOrder(keywords []string) ModifierOrder {
	rank := make(map[string]int, len(keywords))
	for i, k := range keywords {
		rank[k] = i
	}
	return ModifierOrder{rank: rank}
}

// Sort returns modifiers in canonical order. Unknown modifiers follow all
// known ones in their original relative order. Duplicates are kept.
func (o ModifierOrder) Sort(modifiers []string) []string {
	out := append([]string(nil), modifiers...)
	sort.SliceStable(out, func(i, j int) bool {
		return o.rankOf(out[i]) < o.rankOf(out[j])
	})
	return out
}

func (o ModifierOrder) rankOf(m string) int {
	if r, ok := o.rank[m]; ok {
		return r
	}
	return len(o.rank)
}
