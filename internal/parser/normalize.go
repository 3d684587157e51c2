package parser

import "strings"

// NormalizeLines splits raw OCR output into trimmed, non-empty lines.
// Both LF and CRLF endings are handled. Original line order is preserved
// and nothing is deduplicated; field extraction depends on first-match-wins
// precedence over this exact order.
func NormalizeLines(raw string) []string {
	if raw == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
