package handlers

import (
	"net/http"

	"github.com/emilianozm24/baloncesto-api/middleware"
	"github.com/emilianozm24/baloncesto-api/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	tournament, ok := middleware.TournamentFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	team, err := h.teamService.Create(r.Context(), tournament, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team, nil)
}

func (h *TeamHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournament, ok := middleware.TournamentFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	teams, err := h.teamService.ListByTournament(r.Context(), tournament.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams, nil)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	team, ok := middleware.TeamFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	// Reload through the service so the player list comes along.
	full, err := h.teamService.GetByID(r.Context(), team.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, full, nil)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	team, ok := middleware.TeamFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	updated, err := h.teamService.Update(r.Context(), team, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated, nil)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tournament, tok := middleware.TournamentFromContext(r.Context())
	team, ok := middleware.TeamFromContext(r.Context())
	if !tok || !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	if err := h.teamService.Delete(r.Context(), tournament, team); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "team deleted"}, nil)
}
