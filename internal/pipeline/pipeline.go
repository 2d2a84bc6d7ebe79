// Package pipeline turns a set of lexicon files into one OpenAPI document.
//
// Files are loaded, filtered and converted concurrently, then merged into a
// single assembler.Builder one file at a time in the order they were given,
// so that identifier and path collisions resolve the same way on every run.
package pipeline

import (
	"context"
	"runtime"

	"github.com/Zachacious/go-lexspec/internal/assembler"
	"github.com/Zachacious/go-lexspec/internal/converter"
	"github.com/Zachacious/go-lexspec/internal/lexicon"
	"github.com/Zachacious/go-lexspec/internal/model"
	"github.com/getkin/kin-openapi/openapi3"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"
)

// Loader reads one lexicon document.
type Loader func(path string) (*lexicon.Document, error)

// Pipeline holds the collaborators of a generation run.
type Pipeline struct {
	load        Loader
	converters  converter.Set
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLoader replaces lexicon.Load.
func WithLoader(load Loader) Option {
	return func(p *Pipeline) { p.load = load }
}

// WithConverters replaces converter.Default().
func WithConverters(set converter.Set) Option {
	return func(p *Pipeline) { p.converters = set }
}

// WithConcurrency bounds how many files are processed at once. Values below
// one mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) { p.concurrency = n }
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		load:       lexicon.Load,
		converters: converter.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency < 1 {
		p.concurrency = runtime.GOMAXPROCS(0)
	}
	return p
}

// Run processes files and returns the finished document. Any malformed file
// or unknown definition type fails the whole run and no document is returned.
func (p *Pipeline) Run(ctx context.Context, files []string) (*openapi3.T, *model.Stats, error) {
	results := make([]*model.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.processFile(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	b := assembler.New()
	stats := &model.Stats{Files: len(files)}
	for _, res := range results {
		merge(ctx, b, res, stats)
	}

	doc := b.Finalize()
	collisions := b.Collisions()
	stats.SchemaCollisions = collisions.Schemas
	stats.PathCollisions = collisions.Paths
	stats.Tags = len(doc.Tags)
	return doc, stats, nil
}

// processFile loads one file and converts every publishable definition.
// It touches no shared state.
func (p *Pipeline) processFile(path string) (*model.FileResult, error) {
	doc, err := p.load(path)
	if err != nil {
		return nil, err
	}

	res := &model.FileResult{
		Path: path,
		ID:   doc.ID,
		Tag:  lexicon.Tag(doc.ID),
	}
	for _, nd := range doc.Defs {
		identifier := lexicon.Identifier(doc.ID, nd.Name)
		if ok, reason := Publishable(identifier, nd.Def); !ok {
			res.Skipped = append(res.Skipped, model.Skip{Identifier: identifier, Reason: reason})
			continue
		}
		frag, err := Dispatch(doc.ID, nd.Name, nd.Def, p.converters)
		if err != nil {
			return nil, err
		}
		res.Fragments = append(res.Fragments, frag)
	}
	return res, nil
}

func merge(ctx context.Context, b *assembler.Builder, res *model.FileResult, stats *model.Stats) {
	slogctx.Info(ctx, "processing lexicon", "id", res.ID)
	b.RecordTag(res.Tag)

	for _, skip := range res.Skipped {
		slogctx.Info(ctx, "skipping", "id", skip.Identifier, "reason", skip.Reason)
	}
	stats.Skipped += len(res.Skipped)
	stats.Definitions += len(res.Skipped) + len(res.Fragments)

	for _, frag := range res.Fragments {
		switch frag.Kind {
		case model.FragmentSchema:
			stats.Schemas++
			if b.MergeSchema(frag.Identifier, frag.Schema) {
				slogctx.Warn(ctx, "schema replaced by a later definition", "id", frag.Identifier, "file", res.Path)
			}
		case model.FragmentPath:
			stats.Operations++
			if b.MergePath(frag.PathKey, frag.Method, frag.Operation) {
				slogctx.Warn(ctx, "operation replaced by a later definition",
					"path", frag.PathKey, "method", frag.Method, "file", res.Path)
			}
		default:
			switch {
			case frag.Dropped:
				stats.Dropped++
				slogctx.Debug(ctx, "dropping subscription", "id", frag.Identifier)
			case frag.Unrepresentable:
				stats.Unrepresentable++
				slogctx.Debug(ctx, "operation not representable", "id", frag.Identifier)
			}
		}
	}
}
