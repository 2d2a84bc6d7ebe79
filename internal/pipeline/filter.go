package pipeline

import (
	"strings"

	"github.com/Zachacious/go-lexspec/internal/lexicon"
)

// Reasons a definition is kept out of the public document.
const (
	SkipUnspecced  = "unspecced"
	SkipTemp       = "temp"
	SkipDeprecated = "deprecated"
)

// Publishable reports whether a definition belongs in public documentation.
// When it does not, the reason is returned as well.
func Publishable(identifier string, def *lexicon.Def) (bool, string) {
	lower := strings.ToLower(identifier)
	switch {
	case strings.Contains(lower, "unspecced"):
		return false, SkipUnspecced
	case strings.Contains(lower, ".temp."):
		return false, SkipTemp
	case def != nil && strings.HasPrefix(strings.ToLower(def.Description), "deprecated"):
		return false, SkipDeprecated
	}
	return true, ""
}
