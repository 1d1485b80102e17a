package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BeginSessionRequest struct {
	UserID string
	Start  domain.Anchor
	End    domain.Anchor
	// Trip window; End must be at least a minute after StartAt.
	StartAt time.Time
	EndAt   time.Time
	// Interest groups or raw place categories. When empty, the user's stored
	// interests are used.
	Interests []string
}

// Planner starts planning sessions. It holds the shared collaborators every
// session uses and carries no per-session state.
type Planner struct {
	aggregator *CandidateAggregator
	directions ports.DirectionsProvider
	prefs      ports.PreferenceRepository
	renderer   ports.MapRenderer
	metrics    *obs.Metrics
	now        func() time.Time
}

func NewPlanner(
	aggregator *CandidateAggregator,
	directions ports.DirectionsProvider,
	prefs ports.PreferenceRepository,
	renderer ports.MapRenderer,
	metrics *obs.Metrics,
) *Planner {
	return &Planner{
		aggregator: aggregator,
		directions: directions,
		prefs:      prefs,
		renderer:   renderer,
		metrics:    metrics,
		now:        time.Now,
	}
}

// BeginSession validates the anchors and time window, sizes the free-time
// budget from the direct travel estimate, and runs the first candidate search.
//
// Returns domain.ErrDuplicateAnchor, domain.ErrInvalidTimeWindow or a
// *domain.InvalidCapacityError for unusable input, and an error wrapping
// domain.ErrRouteUnavailable when the travel estimate cannot be obtained.
func (p *Planner) BeginSession(ctx context.Context, req BeginSessionRequest) (_ *Session, err error) {
	defer obs.Time(ctx, "planner.BeginSession")(&err)

	req.Start.Role = domain.AnchorStart
	req.End.Role = domain.AnchorEnd
	if err := domain.ValidateAnchors(req.Start, req.End); err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	window, err := domain.NewTimeWindow(req.StartAt, req.EndAt)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	categories, err := p.resolveCategories(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	travel, err := p.estimateTravel(ctx, req.Start.Location, req.End.Location)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w: %w", domain.ErrRouteUnavailable, err)
	}

	capacity := window.DurationSeconds() - travel.TotalSeconds
	ledger, err := domain.NewTimeLedger(capacity)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", &domain.InvalidCapacityError{
			UserSeconds:   window.DurationSeconds(),
			TravelSeconds: travel.TotalSeconds,
		})
	}

	id := uuid.NewString()
	s := &Session{
		ID:         id,
		UserID:     req.UserID,
		Start:      req.Start,
		End:        req.End,
		Window:     window,
		BaseTravel: travel,
		Region:     domain.NewSearchRegion(req.Start.Location, req.End.Location),
		Categories: categories,
		CreatedAt:  p.now(),

		aggregator: p.aggregator,
		renderer:   p.renderer,
		metrics:    p.metrics,
		routes:     NewRouteSynchronizer(id, p.directions, p.renderer, p.metrics),

		ledger:    ledger,
		selection: domain.NewSelectionSet(req.Start, req.End),
		failures:  make(map[string]error),
	}

	s.publishState()

	if _, err := s.RefreshCandidates(ctx); err != nil {
		zap.L().Warn("initial candidate search returned nothing",
			zap.String("session_id", id), zap.Error(err))
	}

	if _, err := s.RefreshRoute(ctx); err != nil {
		zap.L().Warn("initial route unavailable", zap.String("session_id", id), zap.Error(err))
	}

	return s, nil
}

func (p *Planner) resolveCategories(ctx context.Context, req BeginSessionRequest) ([]string, error) {
	interests := req.Interests
	if len(interests) == 0 && req.UserID != "" && p.prefs != nil {
		stored, err := p.prefs.GetInterests(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("load interests for user %q: %w", req.UserID, err)
		}
		interests = stored
	}

	categories := domain.ExpandInterests(interests)
	if len(categories) == 0 {
		return nil, domain.ErrNoCategories
	}
	return categories, nil
}

// Prefer the provider's cached estimate path when supported.
func (p *Planner) estimateTravel(ctx context.Context, origin, destination domain.Coordinates) (domain.TravelEstimate, error) {
	if te, ok := p.directions.(ports.TravelEstimator); ok {
		return te.EstimateTravel(ctx, origin, destination)
	}

	res, err := p.directions.Route(ctx, ports.DirectionsRequest{Origin: origin, Destination: destination})
	if err != nil {
		return domain.TravelEstimate{}, err
	}
	if len(res.LegDurationsSeconds) == 0 {
		return domain.TravelEstimate{}, errors.New("directions result has no legs")
	}
	return domain.TravelEstimate{TotalSeconds: res.TotalSeconds()}, nil
}
