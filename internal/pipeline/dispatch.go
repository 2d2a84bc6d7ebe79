package pipeline

import (
	"net/http"

	"github.com/Zachacious/go-lexspec/internal/converter"
	"github.com/Zachacious/go-lexspec/internal/lexicon"
	"github.com/Zachacious/go-lexspec/internal/model"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownDefinitionType is returned for definitions whose type the
// dispatcher has no route for.
var ErrUnknownDefinitionType = errors.Base("unknown definition type")

// ErrMissingConverter is returned when the converter.Set has no function for
// a definition's kind.
var ErrMissingConverter = errors.Base("missing converter")

// Dispatch converts one definition with the converter for its kind.
func Dispatch(docID, name string, def *lexicon.Def, conv converter.Set) (model.Fragment, error) {
	identifier := lexicon.Identifier(docID, name)
	frag := model.Fragment{Identifier: identifier}

	var schemaFn converter.SchemaFunc
	var opFn converter.OperationFunc
	var method string

	switch def.Type {
	case lexicon.KindArray:
		schemaFn = conv.Array
	case lexicon.KindObject:
		schemaFn = conv.Object
	case lexicon.KindRecord:
		schemaFn = conv.Record
	case lexicon.KindString:
		schemaFn = conv.String
	case lexicon.KindToken:
		schemaFn = conv.Token
	case lexicon.KindProcedure:
		opFn, method = conv.Procedure, http.MethodPost
	case lexicon.KindQuery:
		opFn, method = conv.Query, http.MethodGet
	case lexicon.KindSubscription:
		// OpenAPI cannot describe an event stream.
		frag.Dropped = true
		return frag, nil
	default:
		return model.Fragment{}, errors.Errorf("%w: %q in %s", ErrUnknownDefinitionType, def.Type, identifier)
	}

	if schemaFn == nil && opFn == nil {
		return model.Fragment{}, errors.Errorf("%w: %q in %s", ErrMissingConverter, def.Type, identifier)
	}

	if schemaFn != nil {
		frag.Kind = model.FragmentSchema
		frag.Schema = schemaFn(docID, name, def)
		return frag, nil
	}

	op := opFn(docID, name, def)
	if op == nil {
		frag.Unrepresentable = true
		return frag, nil
	}
	frag.Kind = model.FragmentPath
	frag.PathKey = "/" + docID
	frag.Method = method
	frag.Operation = op
	return frag, nil
}
