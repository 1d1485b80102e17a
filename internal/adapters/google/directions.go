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
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrMalformedRoute is returned when a directions response has no usable route.
var ErrMalformedRoute = errors.New("directions response has no route")

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		WaypointOrder []int `json:"waypoint_order"`
		Legs          []struct {
			Steps []struct {
				Duration struct {
					Value int `json:"value"`
				} `json:"duration"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

func (r *directionsResponse) apiStatus() (string, string) { return r.Status, r.ErrorMessage }

func (r *directionsResponse) reset() { *r = directionsResponse{} }

// DirectionsProvider implements DirectionsProvider and TravelEstimator with
// the Directions web service. Anchor-to-anchor estimates are cached when a
// cache is configured. The provider is safe for concurrent use.
type DirectionsProvider struct {
	client      *client
	travelCache ports.TravelEstimateCache
	metrics     *obs.Metrics
}

func NewDirectionsProvider(
	apiKey string,
	baseURL string,
	httpClient *http.Client,
	travelCache ports.TravelEstimateCache,
	metrics *obs.Metrics,
) (*DirectionsProvider, error) {
	c, err := newClient("google.directions", apiKey, baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &DirectionsProvider{client: c, travelCache: travelCache, metrics: metrics}, nil
}

// Route requests a driving route through the waypoints, optionally letting
// Google reorder them.
func (d *DirectionsProvider) Route(
	ctx context.Context,
	req ports.DirectionsRequest,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "directions.Route")(&err)

	q := url.Values{}
	q.Set("origin", req.Origin.String())
	q.Set("destination", req.Destination.String())
	if len(req.Waypoints) > 0 {
		parts := make([]string, 0, len(req.Waypoints)+1)
		if req.Optimize {
			parts = append(parts, "optimize:true")
		}
		for _, wp := range req.Waypoints {
			parts = append(parts, wp.String())
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}

	start := time.Now()
	var decoded directionsResponse
	err = d.client.getJSON(ctx, "/json", q, &decoded)
	d.metrics.ObserveProvider("directions", start, err)
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("get directions: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return ports.DirectionsResult{}, fmt.Errorf("get directions: status=%s: %w", decoded.Status, ErrMalformedRoute)
	}
	route := decoded.Routes[0]
	if len(route.Legs) == 0 {
		return ports.DirectionsResult{}, fmt.Errorf("get directions: route has no legs: %w", ErrMalformedRoute)
	}

	legs := make([]int, 0, len(route.Legs))
	for _, leg := range route.Legs {
		total := 0
		for _, step := range leg.Steps {
			total += step.Duration.Value
		}
		legs = append(legs, total)
	}

	return ports.DirectionsResult{
		Polyline:            route.OverviewPolyline.Points,
		WaypointOrder:       route.WaypointOrder,
		LegDurationsSeconds: legs,
	}, nil
}

// EstimateTravel returns the direct driving time between two anchors.
func (d *DirectionsProvider) EstimateTravel(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.TravelEstimate, err error) {
	defer obs.Time(ctx, "directions.EstimateTravel")(&err)

	// Check persistent estimate cache before issuing external API calls.
	if d.travelCache != nil {
		est, ok, err := d.travelCache.Get(ctx, origin, destination)
		if err != nil {
			zap.L().Warn("travel cache read failed", zap.Error(err))
		} else if ok {
			return est, nil
		}
	}

	res, err := d.Route(ctx, ports.DirectionsRequest{Origin: origin, Destination: destination})
	if err != nil {
		return domain.TravelEstimate{}, fmt.Errorf("estimate travel: %w", err)
	}
	est := domain.TravelEstimate{TotalSeconds: res.TotalSeconds()}

	if d.travelCache != nil {
		if err := d.travelCache.Put(ctx, origin, destination, est); err != nil {
			zap.L().Warn("travel cache write failed", zap.Error(err))
		}
	}

	return est, nil
}
