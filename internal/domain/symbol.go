package domain

import "strings"

// Symbol is a normalized, upper-case instrument identifier.
type Symbol string

// NormalizeSymbol trims surrounding whitespace and upper-cases s.
// Applying it twice yields the same value.
func NormalizeSymbol(s string) Symbol {
	return Symbol(strings.ToUpper(strings.TrimSpace(s)))
}

func (s Symbol) String() string { return string(s) }

// ParseSymbols splits a comma separated list, normalizes every entry and
// drops empties and duplicates while keeping the first-seen order.
func ParseSymbols(list string) []Symbol {
	var out []Symbol
	seen := map[Symbol]bool{}
	for _, part := range strings.Split(list, ",") {
		sym := NormalizeSymbol(part)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
