package converter

import "strings"

// summarize picks the operation summary out of a lexicon description: the
// first non-empty line, cut at the end of its first sentence.
func summarize(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.Index(line, ". "); i >= 0 {
			return line[:i+1]
		}
		return line
	}
	return ""
}
