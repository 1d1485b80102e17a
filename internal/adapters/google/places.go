package google

import (
	"context"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type nearbySearchResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

func (r *nearbySearchResponse) apiStatus() (string, string) { return r.Status, r.ErrorMessage }

func (r *nearbySearchResponse) reset() { *r = nearbySearchResponse{} }

type placeResult struct {
	PlaceID  string `json:"place_id"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Types      []string `json:"types"`
	PriceLevel *int     `json:"price_level"`
}

// PlacesProvider implements PlaceSearchProvider with the Places Nearby Search web service.
//
// Results are cached per (center, radius, category) when a cache is configured.
// The provider is safe for concurrent use.
type PlacesProvider struct {
	client  *client
	cache   ports.PlaceSearchCache
	metrics *obs.Metrics
}

func NewPlacesProvider(
	apiKey string,
	baseURL string,
	httpClient *http.Client,
	cache ports.PlaceSearchCache,
	metrics *obs.Metrics,
) (*PlacesProvider, error) {
	c, err := newClient("google.places", apiKey, baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &PlacesProvider{client: c, cache: cache, metrics: metrics}, nil
}

// SearchNearby returns places of one category inside the query circle.
func (p *PlacesProvider) SearchNearby(
	ctx context.Context,
	query ports.SearchQuery,
) (_ []ports.PlaceRecord, err error) {
	defer obs.Time(ctx, "places.SearchNearby."+query.Category)(&err)

	category := strings.TrimSpace(query.Category)
	if category == "" {
		return nil, errors.New("search nearby: category must be non-empty")
	}
	if query.RadiusMeters <= 0 {
		return nil, fmt.Errorf("search nearby: radius must be positive, got %f", query.RadiusMeters)
	}
	query.Category = category

	// Check the result cache before issuing external API calls.
	if p.cache != nil {
		records, ok, err := p.cache.Get(ctx, query)
		if err != nil {
			zap.L().Warn("place cache read failed", zap.String("category", category), zap.Error(err))
		} else if ok {
			return records, nil
		}
	}

	q := url.Values{}
	q.Set("location", query.Center.String())
	q.Set("radius", strconv.FormatFloat(query.RadiusMeters, 'f', -1, 64))
	q.Set("type", category)

	start := time.Now()
	var decoded nearbySearchResponse
	err = p.client.getJSON(ctx, "/nearbysearch/json", q, &decoded)
	p.metrics.ObserveProvider("places", start, err)
	if err != nil {
		return nil, fmt.Errorf("search nearby %q: %w", category, err)
	}

	records := make([]ports.PlaceRecord, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		id := r.PlaceID
		if id == "" {
			id = r.ID
		}
		if id == "" {
			continue
		}
		records = append(records, ports.PlaceRecord{
			ID:         id,
			Name:       r.Name,
			Vicinity:   r.Vicinity,
			Location:   domain.Coordinates{Lat: r.Geometry.Location.Lat, Lon: r.Geometry.Location.Lng},
			Types:      r.Types,
			PriceLevel: r.PriceLevel,
		})
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, query, records); err != nil {
			zap.L().Warn("place cache write failed", zap.String("category", category), zap.Error(err))
		}
	}

	return records, nil
}
