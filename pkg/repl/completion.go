package repl

import (
	"sort"
	"strings"
)

// candidates returns the sorted union of built-in REPL command names
// and the registry's top-level command names, per spec §4.7 "Tab
// completion".
func (r *REPL) candidates() []string {
	set := make(map[string]struct{}, len(builtinNames)+8)
	for _, name := range builtinNames {
		set[name] = struct{}{}
	}
	for _, name := range r.registry.Names() {
		set[name] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// complete applies one tab-completion step to word, returning the
// matches it found (for display when there's more than one) and the
// replacement to splice into the line.
func (r *REPL) complete(word string) (matches []string, replacement string) {
	for _, name := range r.candidates() {
		if strings.HasPrefix(name, word) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return nil, word
	case 1:
		return matches, matches[0]
	default:
		return matches, longestCommonPrefix(matches)
	}
}

func longestCommonPrefix(words []string) string {
	if len(words) == 0 {
		return ""
	}
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

// formatColumns lays out words in newline-separated columns fitting to
// an 80-column terminal, each column width maxWidth+2, per spec §4.7.
func formatColumns(words []string) string {
	if len(words) == 0 {
		return ""
	}
	maxWidth := 0
	for _, w := range words {
		if len(w) > maxWidth {
			maxWidth = len(w)
		}
	}
	colWidth := maxWidth + 2
	cols := 80 / colWidth
	if cols < 1 {
		cols = 1
	}

	var b strings.Builder
	for i, w := range words {
		b.WriteString(w)
		if (i+1)%cols == 0 || i == len(words)-1 {
			b.WriteByte('\n')
		} else {
			b.WriteString(strings.Repeat(" ", colWidth-len(w)))
		}
	}
	return b.String()
}
