package koopa

// SplitTopLevel is splitTopLevel exported for lang/codegen's global
// initializer flattening, which needs the identical nesting-aware split.
func SplitTopLevel(s string) []string { return splitTopLevel(s) }

// splitTopLevel splits s on every comma that is not nested inside a
// bracket/brace/paren pair, needed because operand lists sit alongside
// array types (nested "[]") and aggregate initializers (nested "{}").
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
