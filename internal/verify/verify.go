// Package verify checks a generated document after it has been serialized.
//
// The document is read back with the kin-openapi loader, which resolves every
// component reference, and validated. That validator only knows OpenAPI 3.0
// types, so "null" entries of 3.1 type arrays are removed from the loaded copy
// first. Each component schema is then compiled
// as a JSON Schema 2020-12 resource so that references and keywords that the
// OpenAPI validator tolerates are still checked.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Zachacious/go-lexspec/internal/converter"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// resourceURL names the in-memory schema resource compiled by Document.
const resourceURL = "mem://lexspec/components.json"

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Finding is one problem found in a document.
type Finding struct {
	Location string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Location, f.Message)
}

// Report collects the findings of one verification.
type Report struct {
	Schemas  int
	Findings []Finding
}

// OK reports whether the document had no findings.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

func (r *Report) add(location string, err error) {
	r.Findings = append(r.Findings, Finding{Location: location, Message: err.Error()})
}

// Document verifies a serialized OpenAPI document in JSON or YAML. Problems
// with the document are returned as findings; an error means data could not
// be read as a document at all.
func Document(ctx context.Context, data []byte) (*Report, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}
	if raw == nil {
		return nil, errors.New("reading document: empty input")
	}

	report := &Report{}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		report.add("#", err)
	} else {
		stripNullTypes(doc)
		if err := doc.Validate(ctx, openapi3.AllowExtraSiblingFields("summary")); err != nil {
			report.add("#", err)
		}
	}

	if err := compileSchemas(ctx, raw, report); err != nil {
		return nil, err
	}
	return report, nil
}

func compileSchemas(ctx context.Context, raw map[string]any, report *Report) error {
	components, _ := raw["components"].(map[string]any)
	schemas, _ := components["schemas"].(map[string]any)
	if len(schemas) == 0 {
		return nil
	}

	resource, err := json.Marshal(map[string]any{
		"components": map[string]any{"schemas": schemas},
	})
	if err != nil {
		return errors.Errorf("encoding component schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resourceURL, bytes.NewReader(resource)); err != nil {
		return errors.Errorf("adding component schemas: %w", err)
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Schemas++
		location := converter.SchemaRefPrefix + pointerEscaper.Replace(name)
		if _, err := compiler.Compile(resourceURL + location); err != nil {
			report.add(location, err)
		}
	}
	return nil
}

// stripNullTypes removes the 3.1 "null" type from every schema reachable from
// doc. A schema whose only type was null is left untyped.
func stripNullTypes(doc *openapi3.T) {
	seen := make(map[*openapi3.Schema]bool)
	var walk func(ref *openapi3.SchemaRef)
	walk = func(ref *openapi3.SchemaRef) {
		if ref == nil || ref.Value == nil || seen[ref.Value] {
			return
		}
		s := ref.Value
		seen[s] = true

		if s.Type != nil {
			types := make(openapi3.Types, 0, len(*s.Type))
			for _, t := range *s.Type {
				if t != "null" {
					types = append(types, t)
				}
			}
			if len(types) == 0 {
				s.Type = nil
			} else {
				s.Type = &types
			}
		}

		walk(s.Items)
		walk(s.Not)
		walk(s.AdditionalProperties.Schema)
		for _, p := range s.Properties {
			walk(p)
		}
		for _, group := range []openapi3.SchemaRefs{s.OneOf, s.AnyOf, s.AllOf} {
			for _, r := range group {
				walk(r)
			}
		}
	}
	walkContent := func(content openapi3.Content) {
		for _, mt := range content {
			if mt != nil {
				walk(mt.Schema)
			}
		}
	}

	if doc.Components != nil {
		for _, r := range doc.Components.Schemas {
			walk(r)
		}
	}
	if doc.Paths == nil {
		return
	}
	for _, item := range doc.Paths.Map() {
		for _, op := range item.Operations() {
			for _, p := range op.Parameters {
				if p != nil && p.Value != nil {
					walk(p.Value.Schema)
				}
			}
			if op.RequestBody != nil && op.RequestBody.Value != nil {
				walkContent(op.RequestBody.Value.Content)
			}
			if op.Responses == nil {
				continue
			}
			for _, resp := range op.Responses.Map() {
				if resp != nil && resp.Value != nil {
					walkContent(resp.Value.Content)
				}
			}
		}
	}
}
