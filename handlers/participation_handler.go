package handlers

import (
	"net/http"

	"github.com/Aidana07/volunteer-hub/middleware"
	"github.com/Aidana07/volunteer-hub/services"
)

type ParticipationHandler struct {
	participationService services.ParticipationService
}

func NewParticipationHandler(participationService services.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: participationService}
}

// GetMyParticipations returns the caller's reconciled participation list,
// derived statistics and received evaluations.
func (h *ParticipationHandler) GetMyParticipations(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	view, err := h.participationService.GetParticipationView(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
