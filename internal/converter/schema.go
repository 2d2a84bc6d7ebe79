package converter

import (
	"fmt"
	"sort"

	"github.com/Zachacious/go-lexspec/internal/lexicon"
	"github.com/getkin/kin-openapi/openapi3"
)

// SchemaRefPrefix is where converted definitions live in the output document.
const SchemaRefPrefix = "#/components/schemas/"

// lexicon string formats that have a differently named OpenAPI counterpart.
var stringFormats = map[string]string{
	"datetime": "date-time",
}

// schemaGenerator turns lexicon field definitions into OpenAPI schemas.
// docID is needed to resolve document-local references.
type schemaGenerator struct {
	docID string
}

// generate converts any nested lexicon field.
func (sg schemaGenerator) generate(def *lexicon.Def) *openapi3.SchemaRef {
	if def == nil {
		return openapi3.NewSchemaRef("", openapi3.NewSchema())
	}

	switch def.Type {
	case lexicon.KindRef:
		return openapi3.NewSchemaRef(SchemaRefPrefix+lexicon.RefIdentifier(sg.docID, def.Ref), nil)
	case lexicon.KindUnion:
		return &openapi3.SchemaRef{Value: sg.union(def)}
	default:
		return &openapi3.SchemaRef{Value: sg.buildSchema(def)}
	}
}

// buildSchema does the actual work for value kinds.
func (sg schemaGenerator) buildSchema(def *lexicon.Def) *openapi3.Schema {
	var schema *openapi3.Schema
	switch def.Type {
	case lexicon.KindBoolean:
		schema = openapi3.NewBoolSchema()
		schema.Default = def.Default
		if def.Const != nil {
			schema.Enum = []any{def.Const}
		}
	case lexicon.KindInteger:
		schema = sg.integer(def)
	case lexicon.KindString:
		schema = sg.string(def)
	case lexicon.KindBytes:
		schema = openapi3.NewBytesSchema()
	case lexicon.KindCIDLink:
		schema = openapi3.NewObjectSchema().
			WithProperty("$link", openapi3.NewStringSchema())
		schema.Required = []string{"$link"}
	case lexicon.KindBlob:
		schema = openapi3.NewStringSchema().WithFormat("binary")
	case lexicon.KindArray:
		schema = sg.array(def)
	case lexicon.KindObject, lexicon.KindParams:
		schema = sg.object(def)
	case lexicon.KindUnknown:
		schema = openapi3.NewSchema()
	case lexicon.KindNull:
		schema = &openapi3.Schema{Type: &openapi3.Types{"null"}}
	case lexicon.KindToken:
		schema = openapi3.NewStringSchema()
	default:
		schema = openapi3.NewSchema()
		schema.Description = fmt.Sprintf("Unsupported lexicon type: %s", def.Type)
		return schema
	}

	if def.Description != "" {
		schema.Description = def.Description
	}
	return schema
}

func (sg schemaGenerator) integer(def *lexicon.Def) *openapi3.Schema {
	schema := openapi3.NewIntegerSchema()
	if def.Minimum != nil {
		schema.WithMin(float64(*def.Minimum))
	}
	if def.Maximum != nil {
		schema.WithMax(float64(*def.Maximum))
	}
	schema.Enum = def.Enum
	if def.Const != nil {
		schema.Enum = []any{def.Const}
	}
	schema.Default = def.Default
	return schema
}

func (sg schemaGenerator) string(def *lexicon.Def) *openapi3.Schema {
	schema := openapi3.NewStringSchema()
	if def.Format != "" {
		format := def.Format
		if mapped, ok := stringFormats[format]; ok {
			format = mapped
		}
		schema.WithFormat(format)
	}
	if def.MinLength != nil {
		schema.WithMinLength(int64(*def.MinLength))
	}
	if def.MaxLength != nil {
		schema.WithMaxLength(int64(*def.MaxLength))
	}
	schema.Enum = def.Enum
	if def.Const != nil {
		schema.Enum = []any{def.Const}
	}
	schema.Default = def.Default
	if len(def.KnownValues) > 0 {
		schema.Extensions = map[string]any{"x-known-values": def.KnownValues}
	}
	return schema
}

func (sg schemaGenerator) array(def *lexicon.Def) *openapi3.Schema {
	schema := openapi3.NewArraySchema()
	schema.Items = sg.generate(def.Items)
	if def.MinLength != nil {
		schema.MinItems = *def.MinLength
	}
	if def.MaxLength != nil {
		maxItems := *def.MaxLength
		schema.MaxItems = &maxItems
	}
	return schema
}

func (sg schemaGenerator) object(def *lexicon.Def) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()

	nullable := make(map[string]bool, len(def.Nullable))
	for _, name := range def.Nullable {
		nullable[name] = true
	}

	for name, prop := range def.Properties {
		ref := sg.generate(prop)
		if nullable[name] {
			ref = makeNullable(ref)
		}
		schema.WithPropertyRef(name, ref)
	}

	if len(def.Required) > 0 {
		required := make([]string, len(def.Required))
		copy(required, def.Required)
		schema.Required = required
	}
	return schema
}

func (sg schemaGenerator) union(def *lexicon.Def) *openapi3.Schema {
	schema := openapi3.NewSchema()
	refs := make([]string, len(def.Refs))
	copy(refs, def.Refs)
	sort.Strings(refs)
	for _, ref := range refs {
		schema.OneOf = append(schema.OneOf,
			openapi3.NewSchemaRef(SchemaRefPrefix+lexicon.RefIdentifier(sg.docID, ref), nil))
	}
	if def.Description != "" {
		schema.Description = def.Description
	}
	return schema
}

// makeNullable allows null in addition to whatever ref already permits.
func makeNullable(ref *openapi3.SchemaRef) *openapi3.SchemaRef {
	if ref.Ref != "" || ref.Value == nil || ref.Value.Type == nil {
		wrapper := openapi3.NewSchema()
		wrapper.OneOf = openapi3.SchemaRefs{ref, openapi3.NewSchemaRef("", &openapi3.Schema{Type: &openapi3.Types{"null"}})}
		return openapi3.NewSchemaRef("", wrapper)
	}
	types := append(openapi3.Types{}, *ref.Value.Type...)
	types = append(types, "null")
	ref.Value.Type = &types
	return ref
}
