package handlers

import (
	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/services"
)

func coordinates(c domain.Coordinates) dto.CoordinatesDTO {
	return dto.CoordinatesDTO{Lat: c.Lat, Lng: c.Lon}
}

func anchorFrom(req dto.AnchorRequest) domain.Anchor {
	return domain.Anchor{
		PlaceID:  req.PlaceID,
		Name:     req.Name,
		Address:  req.Address,
		Location: domain.Coordinates{Lat: req.Location.Lat, Lon: req.Location.Lng},
	}
}

func anchorResponse(a domain.Anchor) dto.AnchorResponse {
	return dto.AnchorResponse{
		PlaceID:  a.PlaceID,
		Name:     a.Name,
		Address:  a.Address,
		Location: coordinates(a.Location),
	}
}

func candidateResponses(views []services.CandidateView) []dto.CandidateResponse {
	out := make([]dto.CandidateResponse, 0, len(views))
	for _, v := range views {
		types := v.Types
		if types == nil {
			types = []string{}
		}
		out = append(out, dto.CandidateResponse{
			PlaceID:      v.PlaceID,
			Name:         v.Name,
			Vicinity:     v.Vicinity,
			Location:     coordinates(v.Location),
			Types:        types,
			PriceLevel:   v.EffectivePriceLevel(),
			PriceLabel:   v.PriceLabel(),
			VisitSeconds: v.VisitSeconds,
			State:        v.State.String(),
		})
	}
	return out
}

func stopResponses(stops []domain.RouteStop) []dto.StopResponse {
	out := make([]dto.StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, dto.StopResponse{
			Kind:     string(s.Kind),
			PlaceID:  s.PlaceID,
			Name:     s.Name,
			Location: coordinates(s.Location),
		})
	}
	return out
}

func routeResponse(r *domain.Route) *dto.RouteResponse {
	if r == nil {
		return nil
	}

	var path []dto.CoordinatesDTO
	if len(r.Path) > 0 {
		path = make([]dto.CoordinatesDTO, 0, len(r.Path))
		for _, p := range r.Path {
			path = append(path, coordinates(p))
		}
	}

	return &dto.RouteResponse{
		Generation:     r.Generation,
		Stops:          stopResponses(r.Stops),
		OptimizedStops: stopResponses(r.OptimizedStops()),
		Polyline:       r.Polyline,
		Path:           path,
		Bounds: dto.BoundsResponse{
			NorthEast: coordinates(r.Bounds.NorthEast),
			SouthWest: coordinates(r.Bounds.SouthWest),
		},
		LegSeconds:    r.LegDurations,
		TravelSeconds: r.Travel.TotalSeconds,
	}
}

func sessionResponse(s *services.Session) dto.SessionResponse {
	snap := s.Snapshot()
	return dto.SessionResponse{
		ID:                s.ID,
		UserID:            s.UserID,
		Start:             anchorResponse(s.Start),
		End:               anchorResponse(s.End),
		StartAt:           s.Window.Start,
		EndAt:             s.Window.End,
		Categories:        s.Categories,
		CapacitySeconds:   snap.CapacitySeconds,
		FreeSeconds:       snap.FreeSeconds,
		BaseTravelSeconds: s.BaseTravel.TotalSeconds,
		DetourSeconds:     snap.DetourSeconds,
		Candidates:        candidateResponses(snap.Pool),
		Selection:         candidateResponses(snap.Admitted),
		Route:             routeResponse(snap.Route),
		SearchFailures:    snap.Failures,
	}
}

func markerResponses(markers []domain.Marker) []dto.MarkerResponse {
	out := make([]dto.MarkerResponse, 0, len(markers))
	for _, m := range markers {
		out = append(out, dto.MarkerResponse{
			Kind:     string(m.Kind),
			PlaceID:  m.PlaceID,
			Title:    m.Title,
			Location: coordinates(m.Location),
		})
	}
	return out
}
