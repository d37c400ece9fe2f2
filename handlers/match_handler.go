package handlers

import (
	"net/http"

	"github.com/emilianozm24/baloncesto-api/middleware"
	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	tournament, ok := middleware.TournamentFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	var input services.MatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.Create(r.Context(), tournament, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, match, nil)
}

func (h *MatchHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournament, ok := middleware.TournamentFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournament.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches, nil)
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	match, ok := middleware.MatchFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}
	writeJSON(w, http.StatusOK, match, nil)
}

func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	tournament, tok := middleware.TournamentFromContext(r.Context())
	match, ok := middleware.MatchFromContext(r.Context())
	if !tok || !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	var input services.MatchUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	updated, err := h.matchService.Update(r.Context(), tournament, match, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated, nil)
}

func (h *MatchHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tournament, tok := middleware.TournamentFromContext(r.Context())
	match, ok := middleware.MatchFromContext(r.Context())
	if !tok || !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	var input struct {
		Status models.MatchStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	updated, err := h.matchService.UpdateStatus(r.Context(), tournament, match, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated, nil)
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tournament, tok := middleware.TournamentFromContext(r.Context())
	match, ok := middleware.MatchFromContext(r.Context())
	if !tok || !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	if err := h.matchService.Delete(r.Context(), tournament, match); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "match deleted"}, nil)
}
