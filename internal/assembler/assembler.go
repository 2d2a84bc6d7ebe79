package assembler

import (
	"reflect"
	"strings"

	"github.com/Zachacious/go-lexspec/internal/converter"
	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPIVersion is the version of the generated document.
const OpenAPIVersion = "3.1.0"

// Collisions counts merges that replaced a different, earlier value.
type Collisions struct {
	Schemas int
	Paths   int
}

// Builder accumulates the OpenAPI document for one run. It is not safe for
// concurrent use; callers serialize merges.
type Builder struct {
	paths   *openapi3.Paths
	schemas openapi3.Schemas
	tags    []string
	seen    map[string]struct{}

	collisions Collisions
	finalized  bool
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{
		paths:   openapi3.NewPaths(),
		schemas: make(openapi3.Schemas),
		seen:    make(map[string]struct{}),
	}
}

// MergeSchema stores a component schema. A later schema under the same
// identifier replaces the earlier one. It reports whether a different schema
// was replaced.
func (b *Builder) MergeSchema(identifier string, schema *openapi3.SchemaRef) bool {
	b.mustBeOpen()
	prev, exists := b.schemas[identifier]
	b.schemas[identifier] = schema
	if exists && !reflect.DeepEqual(prev, schema) {
		b.collisions.Schemas++
		return true
	}
	return false
}

// MergePath stores op as the only operation of the path item at pathKey. Any
// earlier item at that key is replaced as a whole, whatever its methods. It
// reports whether a different item was replaced.
func (b *Builder) MergePath(pathKey, method string, op *openapi3.Operation) bool {
	b.mustBeOpen()

	pathItem := &openapi3.PathItem{}
	pathItem.SetOperation(strings.ToUpper(method), op)

	prev := b.paths.Value(pathKey)
	b.paths.Set(pathKey, pathItem)
	if prev != nil && !reflect.DeepEqual(prev, pathItem) {
		b.collisions.Paths++
		return true
	}
	return false
}

// RecordTag adds tag to the tag list unless it is already there.
func (b *Builder) RecordTag(tag string) {
	b.mustBeOpen()
	if _, ok := b.seen[tag]; ok {
		return
	}
	b.seen[tag] = struct{}{}
	b.tags = append(b.tags, tag)
}

// Collisions returns how many merges replaced a different earlier value.
func (b *Builder) Collisions() Collisions {
	return b.collisions
}

// Finalize assembles the complete document. The Builder cannot be merged
// into afterwards.
func (b *Builder) Finalize() *openapi3.T {
	b.mustBeOpen()
	b.finalized = true

	tags := make(openapi3.Tags, 0, len(b.tags))
	for _, name := range b.tags {
		tags = append(tags, &openapi3.Tag{Name: name})
	}

	return &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info:    Info(),
		Servers: Servers(),
		Paths:   b.paths,
		Components: &openapi3.Components{
			Schemas:         b.schemas,
			SecuritySchemes: SecuritySchemes(),
		},
		Tags: tags,
	}
}

func (b *Builder) mustBeOpen() {
	if b.finalized {
		panic("assembler: builder used after Finalize")
	}
}

// SecuritySchemes returns the single bearer scheme operations refer to.
func SecuritySchemes() openapi3.SecuritySchemes {
	return openapi3.SecuritySchemes{
		converter.BearerScheme: &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type:   "http",
				Scheme: "bearer",
			},
		},
	}
}
