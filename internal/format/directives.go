package format

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"csfmt/internal/syntax"
)

// Bucket is one of the using-directive groups, in render order.
type Bucket int

const (
	BucketStandard Bucket = iota
	BucketOther
	BucketStatic
	BucketAlias
	bucketCount
)

func (b Bucket) String() string {
	switch b {
	case BucketStandard:
		return "standard"
	case BucketOther:
		return "other"
	case BucketStatic:
		return "static"
	case BucketAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// DirectiveGroups holds usings split by bucket, each sorted.
type DirectiveGroups [bucketCount][]*syntax.Node

// Ordered returns all directives in render order.
func (g DirectiveGroups) Ordered() []*syntax.Node {
	var out []*syntax.Node
	for _, bucket := range g {
		out = append(out, bucket...)
	}
	return out
}

// classifyUsing picks the bucket of a using directive; the first match wins.
// Names are compared case-folded.
func classifyUsing(u *syntax.Node, foldedName, foldedStandard string) Bucket {
	switch {
	case u.Static:
		return BucketStatic
	case u.Alias != "":
		return BucketAlias
	case isStandard(foldedName, foldedStandard):
		return BucketStandard
	default:
		return BucketOther
	}
}

func isStandard(folded, prefix string) bool {
	return folded == prefix || strings.HasPrefix(folded, prefix+".")
}

// GroupDirectives buckets usings and sorts each bucket by case-folded name.
// Sorting is stable, so equal names keep their source order.
func GroupDirectives(usings []*syntax.Node, standardPrefix string) DirectiveGroups {
	fold := cases.Fold()
	standard := fold.String(standardPrefix)

	var groups DirectiveGroups
	keys := make(map[*syntax.Node]string, len(usings))
	for _, u := range usings {
		if u.Kind != syntax.KindUsing {
			violate("directive grouper given %v node", u.Kind)
		}
		key := fold.String(u.Name)
		b := classifyUsing(u, key, standard)
		groups[b] = append(groups[b], u)
		keys[u] = key
	}
	for _, bucket := range groups {
		sort.SliceStable(bucket, func(i, j int) bool {
			return keys[bucket[i]] < keys[bucket[j]]
		})
	}
	return groups
}

// usingText renders a directive in canonical shape.
func usingText(u *syntax.Node) string {
	var sb strings.Builder
	if u.Global {
		sb.WriteString("global ")
	}
	sb.WriteString("using ")
	switch {
	case u.Static:
		sb.WriteString("static ")
	case u.Alias != "":
		sb.WriteString(u.Alias)
		sb.WriteString(" = ")
	}
	sb.WriteString(u.Name)
	sb.WriteByte(';')
	return sb.String()
}
