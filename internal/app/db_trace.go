package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses whitespace and long placeholder lists so
// span attributes stay short and group by statement shape.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	normalized = collapsePlaceholderLists(normalized)
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}

// collapsePlaceholderLists rewrites "IN ($1, $2, $3)" and "IN (?, ?)" to
// "IN (...)".
func collapsePlaceholderLists(query string) string {
	const marker = "IN ("

	var b strings.Builder
	rest := query
	for {
		idx := strings.Index(strings.ToUpper(rest), marker)
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := strings.IndexByte(rest[idx:], ')')
		if end < 0 {
			b.WriteString(rest)
			return b.String()
		}
		list := rest[idx+len(marker) : idx+end]
		b.WriteString(rest[:idx+len(marker)])
		if isPlaceholderList(list) {
			b.WriteString("...")
		} else {
			b.WriteString(list)
		}
		b.WriteByte(')')
		rest = rest[idx+end+1:]
	}
}

func isPlaceholderList(list string) bool {
	items := strings.Split(list, ",")
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "?" {
			continue
		}
		if len(item) < 2 || item[0] != '$' || strings.Trim(item[1:], "0123456789") != "" {
			return false
		}
	}
	return len(items) > 0
}
