// Package lexspec generates an OpenAPI 3.1 document from a directory of AT
// Protocol lexicons.
//
//	res, err := lexspec.Run(ctx, lexspec.Options{
//		Lexicons: "./lexicons",
//		Output:   "./spec/api.json",
//	})
package lexspec

import (
	"context"

	"github.com/Zachacious/go-lexspec/internal/lexicon"
	"github.com/Zachacious/go-lexspec/internal/model"
	"github.com/Zachacious/go-lexspec/internal/output"
	"github.com/Zachacious/go-lexspec/internal/pipeline"
	"github.com/Zachacious/go-lexspec/internal/verify"
	"github.com/getkin/kin-openapi/openapi3"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
)

// Re-exported so callers can match failures with errors.Is.
var (
	ErrMalformedLexicon      = lexicon.ErrMalformedLexicon
	ErrUnknownDefinitionType = pipeline.ErrUnknownDefinitionType
)

// Stats summarizes a generation run.
type Stats = model.Stats

// Format selects the serialization of the written document.
type Format = output.Format

const (
	FormatJSON = output.FormatJSON
	FormatYAML = output.FormatYAML
)

// Options controls a run.
type Options struct {
	// Lexicons is the root directory searched for *.json lexicon files.
	Lexicons string
	// Output is where Run writes the document.
	Output string
	// Format defaults to JSON.
	Format Format
	// Concurrency bounds parallel file processing; zero means GOMAXPROCS.
	Concurrency int
	// Verify re-reads the written document and checks it.
	Verify bool
}

// Result is the outcome of a successful run.
type Result struct {
	Document *openapi3.T
	Stats    *Stats
	// Data is the serialized document. Empty after Generate.
	Data []byte
	// Report is set when Options.Verify is.
	Report *verify.Report
}

// Generate discovers and converts every lexicon under opts.Lexicons. Nothing
// is written.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	files, err := lexicon.Discover(opts.Lexicons)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		slogctx.Warn(ctx, "no lexicon files found", "dir", opts.Lexicons)
	}
	slogctx.Debug(ctx, "discovered lexicons", "dir", opts.Lexicons, "files", len(files))

	p := pipeline.New(pipeline.WithConcurrency(opts.Concurrency))
	doc, stats, err := p.Run(ctx, files)
	if err != nil {
		return nil, err
	}
	return &Result{Document: doc, Stats: stats}, nil
}

// Run generates the document and writes it to opts.Output. The output file is
// left untouched when generation fails.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Output == "" {
		return nil, errors.New("output path must be set")
	}

	res, err := Generate(ctx, opts)
	if err != nil {
		return nil, err
	}

	res.Data, err = output.Marshal(res.Document, opts.Format)
	if err != nil {
		return nil, err
	}
	if err := output.Write(opts.Output, res.Data); err != nil {
		return nil, err
	}
	slogctx.Info(ctx, "wrote OpenAPI document",
		"path", opts.Output,
		"schemas", res.Stats.Schemas,
		"operations", res.Stats.Operations,
		"skipped", res.Stats.Skipped)

	if opts.Verify {
		res.Report, err = verify.Document(ctx, res.Data)
		if err != nil {
			return nil, err
		}
		for _, f := range res.Report.Findings {
			slogctx.Warn(ctx, "verification finding", "location", f.Location, "message", f.Message)
		}
	}
	return res, nil
}
