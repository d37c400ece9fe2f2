package middleware

import (
	"context"

	"github.com/emilianozm24/baloncesto-api/models"
)

type contextKey string

const (
	userContextKey       contextKey = "currentUser"
	tournamentContextKey contextKey = "tournament"
	teamContextKey       contextKey = "team"
	playerContextKey     contextKey = "player"
	matchContextKey      contextKey = "match"
)

// CurrentUser returns the authenticated user placed in the context by
// the Authenticator middleware.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func TournamentFromContext(ctx context.Context) (*models.Tournament, bool) {
	tournament, ok := ctx.Value(tournamentContextKey).(*models.Tournament)
	return tournament, ok
}

func TeamFromContext(ctx context.Context) (*models.Team, bool) {
	team, ok := ctx.Value(teamContextKey).(*models.Team)
	return team, ok
}

func PlayerFromContext(ctx context.Context) (*models.Player, bool) {
	player, ok := ctx.Value(playerContextKey).(*models.Player)
	return player, ok
}

func MatchFromContext(ctx context.Context) (*models.Match, bool) {
	match, ok := ctx.Value(matchContextKey).(*models.Match)
	return match, ok
}

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func withTournament(ctx context.Context, tournament *models.Tournament) context.Context {
	return context.WithValue(ctx, tournamentContextKey, tournament)
}

func withTeam(ctx context.Context, team *models.Team) context.Context {
	return context.WithValue(ctx, teamContextKey, team)
}

func withPlayer(ctx context.Context, player *models.Player) context.Context {
	return context.WithValue(ctx, playerContextKey, player)
}

func withMatch(ctx context.Context, match *models.Match) context.Context {
	return context.WithValue(ctx, matchContextKey, match)
}
