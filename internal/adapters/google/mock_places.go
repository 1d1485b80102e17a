package google

import (
	"context"
	"itinerary-service/internal/ports"
	"sync"
	"time"
)

// MockCategory is the canned outcome of one category query.
type MockCategory struct {
	Records []ports.PlaceRecord
	Err     error
	Delay   time.Duration
}

// MockPlacesProvider answers nearby searches from a category table.
// Unknown categories return no results.
type MockPlacesProvider struct {
	mu         sync.Mutex
	categories map[string]MockCategory
	calls      []ports.SearchQuery
}

func NewMockPlacesProvider(categories map[string]MockCategory) *MockPlacesProvider {
	return &MockPlacesProvider{categories: categories}
}

func (p *MockPlacesProvider) SearchNearby(ctx context.Context, query ports.SearchQuery) ([]ports.PlaceRecord, error) {
	p.mu.Lock()
	p.calls = append(p.calls, query)
	c := p.categories[query.Category]
	p.mu.Unlock()

	if c.Delay > 0 {
		timer := time.NewTimer(c.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]ports.PlaceRecord(nil), c.Records...), nil
}

// Calls returns the queries received so far.
func (p *MockPlacesProvider) Calls() []ports.SearchQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.SearchQuery(nil), p.calls...)
}
