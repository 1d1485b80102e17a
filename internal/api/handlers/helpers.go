package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/services"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// decodeJSON reads exactly one JSON object into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	if err := dto.Validate(v); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeServiceError maps engine errors onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ce *domain.InvalidCapacityError
	switch {
	case errors.As(err, &ce):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:        err.Error(),
			MinutesShort: ce.MinutesShort(),
		})
	case errors.Is(err, domain.ErrDuplicateAnchor),
		errors.Is(err, domain.ErrInvalidTimeWindow),
		errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrNoCategories):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInsufficientTime):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, domain.ErrUnknownCandidate):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrRouteUnavailable):
		writeError(w, r, http.StatusBadGateway, "route provider unavailable")
	default:
		zap.L().Error(op+" failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
