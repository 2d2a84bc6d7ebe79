package lexicon

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind is the declared type of a lexicon definition.
type Kind string

const (
	KindArray        Kind = "array"
	KindObject       Kind = "object"
	KindProcedure    Kind = "procedure"
	KindQuery        Kind = "query"
	KindRecord       Kind = "record"
	KindString       Kind = "string"
	KindSubscription Kind = "subscription"
	KindToken        Kind = "token"
)

// Kinds lists every top-level definition kind the pipeline knows how to route.
var Kinds = []Kind{
	KindArray,
	KindObject,
	KindProcedure,
	KindQuery,
	KindRecord,
	KindString,
	KindSubscription,
	KindToken,
}

// Field kinds only found nested inside other definitions.
const (
	KindBoolean Kind = "boolean"
	KindInteger Kind = "integer"
	KindBytes   Kind = "bytes"
	KindCIDLink Kind = "cid-link"
	KindBlob    Kind = "blob"
	KindRef     Kind = "ref"
	KindUnion   Kind = "union"
	KindUnknown Kind = "unknown"
	KindNull    Kind = "null"
	KindParams  Kind = "params"
)

// Document is one parsed lexicon file.
type Document struct {
	Lexicon     int    `json:"lexicon"`
	ID          string `json:"id"`
	Revision    int    `json:"revision,omitempty"`
	Description string `json:"description,omitempty"`
	Defs        Defs   `json:"defs"`
}

// Def is a lexicon definition. The same shape is used for top-level defs and
// for nested fields; which members are meaningful depends on Type.
type Def struct {
	Type        Kind   `json:"type"`
	Description string `json:"description,omitempty"`

	// object, params
	Properties map[string]*Def `json:"properties,omitempty"`
	Required   []string        `json:"required,omitempty"`
	Nullable   []string        `json:"nullable,omitempty"`

	// array
	Items *Def `json:"items,omitempty"`

	// ref, union
	Ref    string   `json:"ref,omitempty"`
	Refs   []string `json:"refs,omitempty"`
	Closed bool     `json:"closed,omitempty"`

	// string, integer, bytes, array
	Format       string   `json:"format,omitempty"`
	MinLength    *uint64  `json:"minLength,omitempty"`
	MaxLength    *uint64  `json:"maxLength,omitempty"`
	MinGraphemes *uint64  `json:"minGraphemes,omitempty"`
	MaxGraphemes *uint64  `json:"maxGraphemes,omitempty"`
	KnownValues  []string `json:"knownValues,omitempty"`
	Enum         []any    `json:"enum,omitempty"`
	Const        any      `json:"const,omitempty"`
	Default      any      `json:"default,omitempty"`
	Minimum      *int64   `json:"minimum,omitempty"`
	Maximum      *int64   `json:"maximum,omitempty"`

	// blob
	Accept  []string `json:"accept,omitempty"`
	MaxSize *uint64  `json:"maxSize,omitempty"`

	// query, procedure, subscription
	Parameters *Def     `json:"parameters,omitempty"`
	Input      *Body    `json:"input,omitempty"`
	Output     *Body    `json:"output,omitempty"`
	Errors     []*Error `json:"errors,omitempty"`
	Message    *Body    `json:"message,omitempty"`

	// record
	Key    string `json:"key,omitempty"`
	Record *Def   `json:"record,omitempty"`
}

// Body describes the input or output of an XRPC method.
type Body struct {
	Description string `json:"description,omitempty"`
	Encoding    string `json:"encoding,omitempty"`
	Schema      *Def   `json:"schema,omitempty"`
}

// Error is a named error an XRPC method may return.
type Error struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NamedDef pairs a definition with its name inside the document.
type NamedDef struct {
	Name string
	Def  *Def
}

// Defs is the ordered set of definitions of a document. Order follows the
// declaration order in the source file.
type Defs []NamedDef

// UnmarshalJSON decodes the defs object keeping the key order of the input.
func (d *Defs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("defs: expected object, got %v", tok)
	}

	defs := Defs{}
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("defs: expected key, got %v", tok)
		}
		var def Def
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("defs.%s: %w", name, err)
		}
		// Duplicate keys keep the later value, like encoding/json does for maps.
		if i, dup := seen[name]; dup {
			defs[i].Def = &def
			continue
		}
		seen[name] = len(defs)
		defs = append(defs, NamedDef{Name: name, Def: &def})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = defs
	return nil
}
