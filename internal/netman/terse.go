package netman

import "strings"

// splitTerse splits one line of `nmcli -t` output on colons, honoring the
// backslash escaping nmcli applies to colons and backslashes inside values.
func splitTerse(line string) []string {
	var fields []string
	var current strings.Builder
	escaped := false

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}

// unescapeTerse removes nmcli's backslash escaping from a single value.
func unescapeTerse(value string) string {
	var out strings.Builder
	escaped := false
	for _, r := range value {
		if escaped {
			out.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
