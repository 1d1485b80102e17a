package handlers

import (
	"fmt"
	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// PreferenceHandler reads and replaces a user's stored interests.
type PreferenceHandler struct {
	Repo ports.PreferenceRepository
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	interests, err := h.Repo.GetInterests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "get interests", err)
		return
	}
	writeJSON(w, r, http.StatusOK, interestsResponse(userID, interests))
}

func (h *PreferenceHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req dto.InterestsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for _, interest := range req.Interests {
		if !domain.IsInterestGroup(interest) {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown interest %q, want one of %s",
				interest, strings.Join(domain.InterestGroups(), ", ")))
			return
		}
	}

	if err := h.Repo.SaveInterests(r.Context(), userID, req.Interests); err != nil {
		writeServiceError(w, r, "save interests", err)
		return
	}

	// Read back the normalized list.
	interests, err := h.Repo.GetInterests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "get interests", err)
		return
	}
	writeJSON(w, r, http.StatusOK, interestsResponse(userID, interests))
}

func interestsResponse(userID string, interests []string) dto.InterestsResponse {
	if interests == nil {
		interests = []string{}
	}
	categories := domain.ExpandInterests(interests)
	if categories == nil {
		categories = []string{}
	}
	return dto.InterestsResponse{UserID: userID, Interests: interests, Categories: categories}
}
