package lexicon

import "strings"

// MainDef is the name of the definition that stands for the document itself.
const MainDef = "main"

// tagSegments is how many leading NSID segments make up a tag.
const tagSegments = 3

// Identifier returns the document-global name of a definition.
func Identifier(docID, name string) string {
	if name == MainDef {
		return docID
	}
	return docID + "." + name
}

// Tag groups a document by the leading segments of its id,
// e.g. "app.bsky.feed.getTimeline" belongs to "app.bsky.feed".
func Tag(docID string) string {
	parts := strings.Split(docID, ".")
	if len(parts) <= tagSegments {
		return docID
	}
	return strings.Join(parts[:tagSegments], ".")
}

// RefIdentifier resolves a lexicon reference found in document docID to the
// identifier of the definition it points to.
func RefIdentifier(docID, ref string) string {
	if name, ok := strings.CutPrefix(ref, "#"); ok {
		return Identifier(docID, name)
	}
	nsid, name, found := strings.Cut(ref, "#")
	if !found {
		return nsid
	}
	return Identifier(nsid, name)
}

// TokenValue is the string a token definition is referred to by in data,
// e.g. "app.bsky.feed.defs#requestLess".
func TokenValue(docID, name string) string {
	if name == MainDef {
		return docID
	}
	return docID + "#" + name
}
