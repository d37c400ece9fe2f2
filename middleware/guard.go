package middleware

import (
	"net/http"

	"github.com/emilianozm24/baloncesto-api/models"
)

// Scope mismatches answer with the same message for every combination,
// so callers cannot discover which IDs exist under other tournaments.
const actionNotPermitted = "action not permitted"

// RequireAdmin rejects viewer accounts.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if user.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireTournamentOwner lets only the admin who created the tournament
// mutate it or anything under it.
func RequireTournamentOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		tournament, ok := TournamentFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if tournament.AdminID != user.ID {
			writeError(w, http.StatusForbidden, "only the tournament owner can do this")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireTeamInTournament checks that the resolved team belongs to the
// resolved tournament.
func RequireTeamInTournament(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tournament, tok := TournamentFromContext(r.Context())
		team, ok := TeamFromContext(r.Context())
		if !tok || !ok {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if team.TournamentID != tournament.ID {
			writeError(w, http.StatusNotFound, actionNotPermitted)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePlayerInTeam checks that the resolved player belongs to the
// resolved team.
func RequirePlayerInTeam(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		team, tok := TeamFromContext(r.Context())
		player, ok := PlayerFromContext(r.Context())
		if !tok || !ok {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if player.TeamID != team.ID {
			writeError(w, http.StatusNotFound, actionNotPermitted)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireMatchInTournament checks that the resolved match belongs to
// the resolved tournament.
func RequireMatchInTournament(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tournament, tok := TournamentFromContext(r.Context())
		match, ok := MatchFromContext(r.Context())
		if !tok || !ok {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if match.TournamentID != tournament.ID {
			writeError(w, http.StatusNotFound, actionNotPermitted)
			return
		}
		next.ServeHTTP(w, r)
	})
}
