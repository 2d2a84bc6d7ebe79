package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Format is a serialization of the generated document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unknown output format %q (want json or yaml)", s)
	}
}

// Marshal serializes doc. JSON output is indented by two spaces and ends with
// a newline. Both formats always carry "tags" and "components.schemas", even
// when empty.
func Marshal(doc *openapi3.T, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON, "":
		tree, err := documentTree(doc)
		if err != nil {
			return nil, err
		}
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree); err != nil {
			return nil, errors.Errorf("marshaling spec to JSON: %w", err)
		}
	case FormatYAML:
		tree, err := documentTree(doc)
		if err != nil {
			return nil, err
		}
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(yamlNumbers(tree)); err != nil {
			return nil, errors.Errorf("marshaling spec to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Errorf("marshaling spec to YAML: %w", err)
		}
	default:
		return nil, errors.Errorf("unknown output format %q", format)
	}
	return buf.Bytes(), nil
}

// documentTree turns doc into plain maps and slices. kin-openapi escapes HTML
// characters inside its own marshalers and drops empty collections; decoding
// its output again undoes the escaping on re-encode and lets the empty
// collections be put back. Numbers stay json.Number so they print verbatim.
func documentTree(doc *openapi3.T) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Errorf("marshaling spec: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, errors.Errorf("re-reading marshaled spec: %w", err)
	}

	if _, ok := tree["tags"]; !ok {
		tree["tags"] = []any{}
	}
	components, ok := tree["components"].(map[string]any)
	if !ok {
		components = map[string]any{}
		tree["components"] = components
	}
	if _, ok := components["schemas"]; !ok {
		components["schemas"] = map[string]any{}
	}
	return tree, nil
}

// yamlNumbers replaces json.Number values, which yaml.v3 would quote as
// strings, with int64 or float64.
func yamlNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = yamlNumbers(e)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = yamlNumbers(e)
		}
		return v
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}

// Write replaces the file at path with data. The bytes are staged in a
// hidden sibling file, synced, and renamed over path, so a reader never sees
// a partial document. The staged file is removed on failure.
func Write(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+base+".partial-*")
	if err != nil {
		return errors.Errorf("staging %s: %w", path, err)
	}
	staged := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(staged)
		}
	}()

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(staged, 0o644)
	}
	if err != nil {
		return errors.Errorf("staging %s: %w", path, err)
	}

	if err = os.Rename(staged, path); err != nil {
		return errors.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
