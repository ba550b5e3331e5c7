package report

import "strings"

// NormalizeBullets rewrites markdown-style "* " list markers into plain
// dashes, line by line. Only a line whose first non-space characters are
// "* " is touched, and only its first "*" is replaced; surrounding
// whitespace, the rest of the line, line order, and line count are all
// preserved. The chat surface renders "*" bullets poorly, hence the swap.
func NormalizeBullets(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "* ") {
			continue
		}
		if idx := strings.Index(line, "*"); idx != -1 {
			lines[i] = line[:idx] + "-" + line[idx+1:]
		}
	}
	return strings.Join(lines, "\n")
}
