package format

import (
	"fmt"
	"strings"
)

// DefaultModifierOrder is the house-style declaration modifier order.
var DefaultModifierOrder = []string{
	"public", "protected", "internal", "private",
	"static", "abstract", "virtual", "override", "sealed", "extern",
	"partial", "async", "unsafe", "readonly", "volatile", "const",
}

// Style configures the house style.
type Style struct {
	IndentWidth int
	UseTabs     bool
	// StandardPrefix is the root namespace of the standard library. Usings
	// naming it, or any namespace below it, form the first group.
	StandardPrefix string
	ModifierOrder  []string
}

// DefaultStyle returns the built-in house style.
func DefaultStyle() Style {
	return Style{
		IndentWidth:    4,
		StandardPrefix: "System",
		ModifierOrder:  append([]string(nil), DefaultModifierOrder...),
	}
}

func (s Style) withDefaults() Style {
	def := DefaultStyle()
	if s.IndentWidth == 0 {
		s.IndentWidth = def.IndentWidth
	}
	if s.StandardPrefix == "" {
		s.StandardPrefix = def.StandardPrefix
	}
	if len(s.ModifierOrder) == 0 {
		s.ModifierOrder = def.ModifierOrder
	}
	return s
}

// Validate checks the style for values the formatter cannot honor.
func (s Style) Validate() error {
	if s.IndentWidth < 0 || s.IndentWidth > 16 {
		return fmt.Errorf("indent width %d out of range [0, 16]", s.IndentWidth)
	}
	if strings.ContainsAny(s.StandardPrefix, " \t\r\n;") {
		return fmt.Errorf("standard prefix %q is not a dotted name", s.StandardPrefix)
	}
	seen := make(map[string]bool, len(s.ModifierOrder))
	for _, m := range s.ModifierOrder {
		if m == "" {
			return fmt.Errorf("modifier order contains an empty entry")
		}
		if seen[m] {
			return fmt.Errorf("modifier %q listed twice in modifier order", m)
		}
		seen[m] = true
	}
	return nil
}

func (s Style) indentUnit() string {
	if s.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", s.IndentWidth)
}
