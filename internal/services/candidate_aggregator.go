package services

import (
	"context"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"iter"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchResult is one completed fan-out round. Failures holds the error of
// every category whose query failed; those categories contribute no candidates.
type SearchResult struct {
	Region     domain.SearchRegion
	Categories []string
	Candidates []domain.Candidate
	Failures   map[string]error
}

// All yields the merged candidates; each call restarts from the first.
func (r SearchResult) All() iter.Seq[domain.Candidate] {
	return func(yield func(domain.Candidate) bool) {
		for _, c := range r.Candidates {
			if !yield(c) {
				return
			}
		}
	}
}

// AllFailed reports whether every category query failed.
func (r SearchResult) AllFailed() bool {
	return len(r.Categories) > 0 && len(r.Failures) == len(r.Categories)
}

// CandidateAggregator queries every category concurrently and publishes a
// single deduplicated candidate list once all queries have finished.
type CandidateAggregator struct {
	provider    ports.PlaceSearchProvider
	concurrency int
}

func NewCandidateAggregator(provider ports.PlaceSearchProvider, concurrency int) *CandidateAggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CandidateAggregator{provider: provider, concurrency: concurrency}
}

type categoryResult struct {
	records []ports.PlaceRecord
	err     error
}

// Search fans out one query per category and joins on all of them.
// Results are merged in category order; the first record seen for a place id wins.
func (a *CandidateAggregator) Search(
	ctx context.Context,
	region domain.SearchRegion,
	categories []string,
) SearchResult {
	var err error
	defer obs.Time(ctx, "aggregator.Search")(&err)

	results := make([]categoryResult, len(categories))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, category := range categories {
		g.Go(func() error {
			records, err := a.provider.SearchNearby(ctx, ports.SearchQuery{
				Center:       region.Center,
				RadiusMeters: region.RadiusMeters,
				Category:     category,
			})
			results[i] = categoryResult{records: records, err: err}
			return nil
		})
	}
	_ = g.Wait()

	out := SearchResult{
		Region:     region,
		Categories: append([]string(nil), categories...),
		Failures:   make(map[string]error),
	}

	seen := make(map[string]struct{})
	for i, res := range results {
		if res.err != nil {
			zap.L().Warn("category search failed",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.String("category", categories[i]),
				zap.Error(res.err),
			)
			out.Failures[categories[i]] = res.err
			continue
		}

		for _, rec := range res.records {
			if rec.ID == "" {
				continue
			}
			if _, ok := seen[rec.ID]; ok {
				continue
			}
			seen[rec.ID] = struct{}{}
			out.Candidates = append(out.Candidates, toCandidate(rec))
		}
	}

	if out.AllFailed() {
		err = errAllCategoriesFailed
	}
	return out
}

func toCandidate(rec ports.PlaceRecord) domain.Candidate {
	return domain.Candidate{
		PlaceID:    rec.ID,
		Name:       rec.Name,
		Vicinity:   rec.Vicinity,
		Location:   rec.Location,
		Types:      append([]string(nil), rec.Types...),
		PriceLevel: rec.PriceLevel,
	}
}
