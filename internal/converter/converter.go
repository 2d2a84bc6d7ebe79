// Package converter maps single lexicon definitions onto OpenAPI schema and
// operation objects. Every function here is pure: the same definition always
// converts to an equal value, and nothing outside the arguments is read.
package converter

import (
	"github.com/Zachacious/go-lexspec/internal/lexicon"
	"github.com/getkin/kin-openapi/openapi3"
)

// SchemaFunc converts a definition that becomes a component schema.
type SchemaFunc func(docID, name string, def *lexicon.Def) *openapi3.SchemaRef

// OperationFunc converts an XRPC method definition. It returns nil when the
// definition cannot be represented as an HTTP operation.
type OperationFunc func(docID, name string, def *lexicon.Def) *openapi3.Operation

// Set holds one converter per convertible definition kind.
type Set struct {
	Array     SchemaFunc
	Object    SchemaFunc
	Record    SchemaFunc
	String    SchemaFunc
	Token     SchemaFunc
	Procedure OperationFunc
	Query     OperationFunc
}

// Default returns the converters used for real lexicon trees.
func Default() Set {
	return Set{
		Array:     ConvertArray,
		Object:    ConvertObject,
		Record:    ConvertRecord,
		String:    ConvertString,
		Token:     ConvertToken,
		Procedure: ConvertProcedure,
		Query:     ConvertQuery,
	}
}

func ConvertArray(docID, _ string, def *lexicon.Def) *openapi3.SchemaRef {
	sg := schemaGenerator{docID: docID}
	schema := sg.array(def)
	schema.Description = def.Description
	return openapi3.NewSchemaRef("", schema)
}

func ConvertObject(docID, _ string, def *lexicon.Def) *openapi3.SchemaRef {
	sg := schemaGenerator{docID: docID}
	schema := sg.object(def)
	schema.Description = def.Description
	return openapi3.NewSchemaRef("", schema)
}

// ConvertRecord converts the record's object body. The record key type has no
// OpenAPI equivalent and is kept as an extension.
func ConvertRecord(docID, _ string, def *lexicon.Def) *openapi3.SchemaRef {
	sg := schemaGenerator{docID: docID}
	var schema *openapi3.Schema
	if def.Record != nil {
		schema = sg.object(def.Record)
	} else {
		schema = openapi3.NewObjectSchema()
	}

	schema.Description = def.Description
	if schema.Description == "" && def.Record != nil {
		schema.Description = def.Record.Description
	}
	if def.Key != "" {
		schema.Extensions = map[string]any{"x-record-key": def.Key}
	}
	return openapi3.NewSchemaRef("", schema)
}

func ConvertString(docID, _ string, def *lexicon.Def) *openapi3.SchemaRef {
	sg := schemaGenerator{docID: docID}
	schema := sg.string(def)
	schema.Description = def.Description
	return openapi3.NewSchemaRef("", schema)
}

// ConvertToken converts a token into a string that can only hold the token's
// own reference value.
func ConvertToken(docID, name string, def *lexicon.Def) *openapi3.SchemaRef {
	schema := openapi3.NewStringSchema()
	schema.Enum = []any{lexicon.TokenValue(docID, name)}
	schema.Description = def.Description
	return openapi3.NewSchemaRef("", schema)
}
