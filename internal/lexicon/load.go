package lexicon

import (
	"encoding/json"
	"os"

	"gitlab.com/tozd/go/errors"
)

// ErrMalformedLexicon is returned for files that are not a usable lexicon document.
var ErrMalformedLexicon = errors.Base("malformed lexicon")

// Load reads and parses the lexicon document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %v", ErrMalformedLexicon, path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a lexicon document and checks the fields the pipeline relies on.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Errorf("%w: %v", ErrMalformedLexicon, err)
	}
	if doc.ID == "" {
		return nil, errors.Errorf("%w: missing id", ErrMalformedLexicon)
	}
	if len(doc.Defs) == 0 {
		return nil, errors.Errorf("%w: %s: missing defs", ErrMalformedLexicon, doc.ID)
	}
	for _, nd := range doc.Defs {
		if nd.Def.Type == "" {
			return nil, errors.Errorf("%w: %s: def %q has no type", ErrMalformedLexicon, doc.ID, nd.Name)
		}
	}
	return &doc, nil
}
