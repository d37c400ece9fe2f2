package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/emilianozm24/baloncesto-api/repositories"
	"github.com/go-chi/chi/v5"
)

// Resolver turns the numeric URL parameters into loaded records so the
// handlers and guards downstream never re-fetch by ID. An unknown ID
// is a plain 404.
type Resolver struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
}

func NewResolver(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
) *Resolver {
	return &Resolver{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
	}
}

func (rs *Resolver) TournamentCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "tournamentID")
		if !ok {
			return
		}
		tournament, err := rs.tournamentRepo.GetByID(r.Context(), id)
		if err != nil {
			writeResolveError(w, err, repositories.ErrTournamentNotFound, "tournament not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(withTournament(r.Context(), tournament)))
	})
}

func (rs *Resolver) TeamCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "teamID")
		if !ok {
			return
		}
		team, err := rs.teamRepo.GetByID(r.Context(), id)
		if err != nil {
			writeResolveError(w, err, repositories.ErrTeamNotFound, "team not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(withTeam(r.Context(), team)))
	})
}

// TeamTournamentCtx loads the tournament owning the already-resolved
// team. Routes rooted at /teams use it so the ownership guard still
// sees the tournament.
func (rs *Resolver) TeamTournamentCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		team, ok := TeamFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		tournament, err := rs.tournamentRepo.GetByID(r.Context(), team.TournamentID)
		if err != nil {
			writeResolveError(w, err, repositories.ErrTournamentNotFound, "tournament not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(withTournament(r.Context(), tournament)))
	})
}

func (rs *Resolver) PlayerCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "playerID")
		if !ok {
			return
		}
		player, err := rs.playerRepo.GetByID(r.Context(), id)
		if err != nil {
			writeResolveError(w, err, repositories.ErrPlayerNotFound, "player not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(withPlayer(r.Context(), player)))
	})
}

func (rs *Resolver) MatchCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "matchID")
		if !ok {
			return
		}
		match, err := rs.matchRepo.GetByID(r.Context(), id)
		if err != nil {
			writeResolveError(w, err, repositories.ErrMatchNotFound, "match not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(withMatch(r.Context(), match)))
	})
}

func urlID(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}

func writeResolveError(w http.ResponseWriter, err, notFound error, message string) {
	if errors.Is(err, notFound) {
		writeError(w, http.StatusNotFound, message)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}
