package prompts

import (
	"regexp"
	"strings"
)

var (
	listMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)]|\(\d+\))\s*`)
	quotes     = "\"'“”‘’`"
)

// ParsePrompts extracts up to count prompts from a model reply, one per
// line. List markers and surrounding quotes are removed; headings (lines
// ending in ':') and case-insensitive duplicates are skipped.
func ParsePrompts(reply string, count int) []string {
	var out []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(reply, "\n") {
		if count > 0 && len(out) >= count {
			break
		}
		p := strings.TrimSpace(line)
		p = strings.TrimSpace(listMarker.ReplaceAllString(p, ""))
		p = strings.TrimSpace(strings.Trim(p, quotes))
		p = strings.Trim(p, "*_")
		if p == "" || strings.HasSuffix(p, ":") {
			continue
		}
		key := strings.ToLower(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
