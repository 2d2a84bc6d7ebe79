package converter

import (
	"net/http"
	"sort"

	"github.com/Zachacious/go-lexspec/internal/lexicon"
	"github.com/getkin/kin-openapi/openapi3"
)

// BearerScheme is the security scheme every XRPC operation refers to.
const BearerScheme = "Bearer"

const jsonEncoding = "application/json"

// errors any XRPC endpoint may answer with, on top of the declared ones.
var commonErrors = []string{"InvalidRequest", "ExpiredToken", "InvalidToken"}

// ConvertQuery converts a query into a GET operation.
func ConvertQuery(docID, name string, def *lexicon.Def) *openapi3.Operation {
	op := newOperation(docID, name, def)
	if op == nil {
		return nil
	}
	op.Responses = responses(docID, def)
	return op
}

// ConvertProcedure converts a procedure into a POST operation.
func ConvertProcedure(docID, name string, def *lexicon.Def) *openapi3.Operation {
	op := newOperation(docID, name, def)
	if op == nil {
		return nil
	}
	if def.Input != nil && def.Input.Encoding != "" {
		body := openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(bodyContent(docID, def.Input))
		if def.Input.Description != "" {
			body.Description = def.Input.Description
		}
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}
	op.Responses = responses(docID, def)
	return op
}

// newOperation fills what queries and procedures share. XRPC methods are
// addressed by their document id, so only the main definition is an endpoint.
func newOperation(docID, name string, def *lexicon.Def) *openapi3.Operation {
	if name != lexicon.MainDef {
		return nil
	}

	op := openapi3.NewOperation()
	op.OperationID = docID
	op.Tags = []string{lexicon.Tag(docID)}
	op.Summary = summarize(def.Description)
	op.Description = def.Description
	op.Security = openapi3.NewSecurityRequirements().
		With(openapi3.NewSecurityRequirement().Authenticate(BearerScheme))

	if def.Parameters != nil {
		sg := schemaGenerator{docID: docID}
		required := make(map[string]bool, len(def.Parameters.Required))
		for _, r := range def.Parameters.Required {
			required[r] = true
		}

		names := make([]string, 0, len(def.Parameters.Properties))
		for n := range def.Parameters.Properties {
			names = append(names, n)
		}
		sort.Strings(names)

		for _, n := range names {
			prop := def.Parameters.Properties[n]
			param := openapi3.NewQueryParameter(n).WithRequired(required[n])
			param.Description = prop.Description
			param.Schema = sg.generate(prop)
			op.AddParameter(param)
		}
	}
	return op
}

func bodyContent(docID string, body *lexicon.Body) openapi3.Content {
	if body.Encoding != jsonEncoding {
		schema := openapi3.NewStringSchema().WithFormat("binary")
		return openapi3.NewContentWithSchema(schema, []string{body.Encoding})
	}
	if body.Schema == nil {
		return openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema())
	}
	sg := schemaGenerator{docID: docID}
	return openapi3.NewContentWithJSONSchemaRef(sg.generate(body.Schema))
}

func responses(docID string, def *lexicon.Def) *openapi3.Responses {
	ok := openapi3.NewResponse().WithDescription("OK")
	if def.Output != nil && def.Output.Encoding != "" {
		ok.Content = bodyContent(docID, def.Output)
		if def.Output.Description != "" {
			ok.WithDescription(def.Output.Description)
		}
	}

	return openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: ok}),
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{Value: badRequest(def.Errors)}),
		openapi3.WithStatus(http.StatusUnauthorized, &openapi3.ResponseRef{Value: unauthorized()}),
	)
}

func badRequest(declared []*lexicon.Error) *openapi3.Response {
	names := make([]any, 0, len(declared)+len(commonErrors))
	seen := make(map[string]bool)
	for _, e := range declared {
		if e == nil || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	for _, name := range commonErrors {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	errName := openapi3.NewStringSchema()
	errName.Enum = names
	return openapi3.NewResponse().
		WithDescription("Bad Request").
		WithJSONSchema(errorSchema(errName))
}

func unauthorized() *openapi3.Response {
	errName := openapi3.NewStringSchema()
	errName.Enum = []any{"AuthMissing"}
	return openapi3.NewResponse().
		WithDescription("Unauthorized").
		WithJSONSchema(errorSchema(errName))
}

func errorSchema(errName *openapi3.Schema) *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("error", errName).
		WithProperty("message", openapi3.NewStringSchema())
	schema.Required = []string{"error", "message"}
	return schema
}
