package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/emilianozm24/baloncesto-api/live"
	"github.com/emilianozm24/baloncesto-api/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub            *live.Hub
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, tournamentRepo repositories.TournamentRepository, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

// ServeWs subscribes the caller to the live match feed of one
// tournament. Clients connect to /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := strconv.Atoi(chi.URLParam(r, "tournamentID"))
	if err != nil || tournamentID <= 0 {
		errorResponse(w, http.StatusBadRequest, "invalid tournamentID")
		return
	}

	if _, err := h.tournamentRepo.GetByID(r.Context(), tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			notFoundResponse(w, "tournament not found")
			return
		}
		serverErrorResponse(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		h.logger.Error("websocket upgrade failed",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, strconv.Itoa(tournamentID))
	client.Register()
}
