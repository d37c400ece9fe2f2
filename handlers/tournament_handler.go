package handlers

import (
	"net/http"

	"github.com/emilianozm24/baloncesto-api/middleware"
	"github.com/emilianozm24/baloncesto-api/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		unauthorizedResponse(w, "unauthorized")
		return
	}

	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tournament, nil)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tournaments, nil)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournament, ok := middleware.TournamentFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	// Reload through the service so the team details come along.
	full, err := h.tournamentService.GetByID(r.Context(), tournament.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, full, nil)
}

func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	tournament, ok := middleware.TournamentFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	updated, err := h.tournamentService.Update(r.Context(), tournament, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated, nil)
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tournament, ok := middleware.TournamentFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	if err := h.tournamentService.Delete(r.Context(), tournament); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "tournament deleted"}, nil)
}
