package publication

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/angerslab/sitegen/internal/eutils"
)

// ErrNoQueries indicates a run was attempted with no configured query terms.
var ErrNoQueries = errors.New("no query terms configured")

// Searcher runs one identifier search per query term.
type Searcher interface {
	Search(ctx context.Context, term string, retmax int) ([]string, error)
}

// Pipeline runs search, deduplication, batched retrieval, and normalization.
// A term or batch that fails after retries contributes nothing; the run
// continues with a warning.
type Pipeline struct {
	searcher  Searcher
	source    Source
	batchSize int
	warnf     func(format string, args ...any)
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithBatchSize overrides the summary/fetch batch limit (for testing).
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		p.batchSize = n
	}
}

// WithWarnf redirects warning output (defaults to stderr).
func WithWarnf(fn func(format string, args ...any)) PipelineOption {
	return func(p *Pipeline) {
		p.warnf = fn
	}
}

// NewPipeline wires a searcher and a source variant together.
func NewPipeline(searcher Searcher, source Source, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		searcher:  searcher,
		source:    source,
		batchSize: eutils.MaxBatchSize,
		warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "[warn] "+format+"\n", args...)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline for the given query terms and returns the
// normalized records in aggregate (first-seen) order.
func (p *Pipeline) Run(ctx context.Context, terms []string, retmax int) ([]Record, error) {
	if len(terms) == 0 {
		return nil, ErrNoQueries
	}

	idsPerTerm := make([][]string, 0, len(terms))
	for _, term := range terms {
		ids, err := p.searcher.Search(ctx, term, retmax)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.warnf("search %q: %v", term, err)
			continue
		}
		idsPerTerm = append(idsPerTerm, ids)
	}

	unique := Dedupe(idsPerTerm)

	var records []Record
	for start := 0; start < len(unique); start += p.batchSize {
		end := start + p.batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch, err := p.source.Batch(ctx, unique[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.warnf("fetching %d records: %v", end-start, err)
			continue
		}
		records = append(records, batch...)
	}

	return records, nil
}
