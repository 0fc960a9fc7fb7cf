package publication

import (
	"context"
	"fmt"

	"github.com/angerslab/sitegen/internal/eutils"
)

// Source fetches one batch of identifiers and returns canonical records.
// The two implementations correspond to the two E-utilities response
// formats and are interchangeable behind the Record contract.
type Source interface {
	Batch(ctx context.Context, ids []string) ([]Record, error)
}

// Source variant names accepted by NewSource.
const (
	SourceFetch   = "efetch"   // verbose XML records (default)
	SourceSummary = "esummary" // compact JSON records
)

// NewSource selects a normalizer variant by name.
func NewSource(client *eutils.Client, variant string) (Source, error) {
	switch variant {
	case "", SourceFetch:
		return &FetchSource{client: client}, nil
	case SourceSummary:
		return &SummarySource{client: client}, nil
	default:
		return nil, fmt.Errorf("unknown source variant %q (valid: %s, %s)", variant, SourceFetch, SourceSummary)
	}
}

// FetchSource retrieves verbose efetch XML and normalizes it.
type FetchSource struct {
	client *eutils.Client
}

// Batch implements Source.
func (s *FetchSource) Batch(ctx context.Context, ids []string) ([]Record, error) {
	articles, err := s.client.FetchBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(articles))
	for _, a := range articles {
		records = append(records, FromArticle(a))
	}
	return records, nil
}

// SummarySource retrieves compact esummary JSON and normalizes it.
type SummarySource struct {
	client *eutils.Client
}

// Batch implements Source.
func (s *SummarySource) Batch(ctx context.Context, ids []string) ([]Record, error) {
	docs, err := s.client.SummaryBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, FromSummary(doc))
	}
	return records, nil
}
