package model

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// FragmentKind says which output collection a converted definition goes to.
type FragmentKind int

const (
	// FragmentNone contributes nothing to the document.
	FragmentNone FragmentKind = iota
	// FragmentSchema is a component schema keyed by identifier.
	FragmentSchema
	// FragmentPath is an operation on a path item.
	FragmentPath
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentSchema:
		return "schema"
	case FragmentPath:
		return "path"
	default:
		return "none"
	}
}

// Fragment is the result of dispatching one lexicon definition.
type Fragment struct {
	Kind FragmentKind
	// Identifier is the global name of the source definition.
	Identifier string

	// Schema is set for FragmentSchema.
	Schema *openapi3.SchemaRef

	// PathKey, Method and Operation are set for FragmentPath.
	PathKey   string
	Method    string
	Operation *openapi3.Operation

	// Unrepresentable marks a query or procedure whose converter declined it.
	Unrepresentable bool
	// Dropped marks definitions that never produce output (subscriptions).
	Dropped bool
}

// FileResult is everything one lexicon file contributes to the document,
// in definition order.
type FileResult struct {
	Path      string
	ID        string
	Tag       string
	Fragments []Fragment
	Skipped   []Skip
}

// Skip records a definition left out by the publication filter.
type Skip struct {
	Identifier string
	Reason     string
}

// Stats summarizes a generation run.
type Stats struct {
	Files           int
	Definitions     int
	Schemas         int
	Operations      int
	Skipped         int
	Dropped         int
	Unrepresentable int
	Tags            int

	SchemaCollisions int
	PathCollisions   int
}
