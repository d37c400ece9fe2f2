package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/repositories"
)

type tournamentTestEnv struct {
	svc         TournamentService
	tournaments *memTournamentRepo
	teams       *memTeamRepo
	players     *memPlayerRepo
	matches     *memMatchRepo
	uploader    *memUploader
	users       *memUserRepo
}

func newTournamentTestEnv() *tournamentTestEnv {
	env := &tournamentTestEnv{
		tournaments: newMemTournamentRepo(),
		teams:       newMemTeamRepo(),
		players:     newMemPlayerRepo(),
		matches:     newMemMatchRepo(),
		uploader:    newMemUploader(),
		users:       newMemUserRepo(),
	}
	env.svc = NewTournamentService(env.tournaments, env.teams, env.players, env.matches, env.uploader, slog.Default())
	return env
}

func TestCreateTournament(t *testing.T) {
	env := newTournamentTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")

	tournament, err := env.svc.Create(ctx, admin, TournamentInput{
		Name:      "Interpolitécnico 2026",
		DateStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tournament.AdminID != admin.ID {
		t.Errorf("AdminID = %d, want %d", tournament.AdminID, admin.ID)
	}
	if len(tournament.TeamIDs) != 0 || len(tournament.MatchIDs) != 0 {
		t.Error("new tournament should have empty membership lists")
	}
}

func TestCreateTournamentValidation(t *testing.T) {
	env := newTournamentTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")

	_, err := env.svc.Create(ctx, admin, TournamentInput{
		DateStart: time.Now(),
		DateEnd:   time.Now().Add(time.Hour),
	})
	if !errors.Is(err, ErrTournamentNameRequired) {
		t.Errorf("missing name error = %v, want ErrTournamentNameRequired", err)
	}

	_, err = env.svc.Create(ctx, admin, TournamentInput{
		Name:      "Backwards",
		DateStart: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrTournamentInvalidDates) {
		t.Errorf("inverted dates error = %v, want ErrTournamentInvalidDates", err)
	}
}

func TestCreateTournamentNameConflict(t *testing.T) {
	env := newTournamentTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")

	input := TournamentInput{
		Name:      "Copa IPN",
		DateStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := env.svc.Create(ctx, admin, input); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	// The name is unique across all admins, not per owner.
	other := userFixture(t, env.users, "other@example.com")
	if _, err := env.svc.Create(ctx, other, input); !errors.Is(err, ErrTournamentNameConflict) {
		t.Fatalf("second Create error = %v, want ErrTournamentNameConflict", err)
	}
}

func TestDeleteTournamentCascades(t *testing.T) {
	env := newTournamentTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")

	tournament := tournamentFixture(t, env.tournaments, "Copa IPN", admin.ID)
	teamA := teamFixture(t, env.teams, "Águilas", "varonil", tournament.ID)
	teamB := teamFixture(t, env.teams, "Lobos", "varonil", tournament.ID)

	var attachments int
	for i, team := range []*models.Team{teamA, teamB} {
		for j := 0; j < 3; j++ {
			player := playerFixture(t, env.players, team.ID, i*10+j+1)
			attachments += len(player.AttachmentKeys())
		}
	}

	for i := 0; i < 2; i++ {
		match := &models.Match{
			TeamLocal:    teamA.Name,
			TeamVisitor:  teamB.Name,
			Status:       models.MatchInProgress,
			TournamentID: tournament.ID,
		}
		if err := env.matches.Create(ctx, match); err != nil {
			t.Fatalf("match fixture: %v", err)
		}
	}

	// An unrelated tournament must survive the cascade untouched.
	other := tournamentFixture(t, env.tournaments, "Otra Copa", admin.ID)
	otherTeam := teamFixture(t, env.teams, "Panteras", "femenil", other.ID)
	otherPlayer := playerFixture(t, env.players, otherTeam.ID, 99)

	if err := env.svc.Delete(ctx, tournament); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := env.tournaments.GetByID(ctx, tournament.ID); !errors.Is(err, repositories.ErrTournamentNotFound) {
		t.Error("tournament row survived the cascade")
	}
	if teams, _ := env.teams.ListByTournament(ctx, tournament.ID); len(teams) != 0 {
		t.Errorf("teams left after cascade = %d, want 0", len(teams))
	}
	if matches, _ := env.matches.ListByTournament(ctx, tournament.ID); len(matches) != 0 {
		t.Errorf("matches left after cascade = %d, want 0", len(matches))
	}
	for _, team := range []*models.Team{teamA, teamB} {
		if players, _ := env.players.ListByTeam(ctx, team.ID); len(players) != 0 {
			t.Errorf("players left in team %d after cascade = %d, want 0", team.ID, len(players))
		}
	}
	if len(env.uploader.deleted) != attachments {
		t.Errorf("attachments released = %d, want %d", len(env.uploader.deleted), attachments)
	}

	// The neighbouring tournament is intact.
	if _, err := env.tournaments.GetByID(ctx, other.ID); err != nil {
		t.Errorf("unrelated tournament disappeared: %v", err)
	}
	if _, err := env.players.GetByID(ctx, otherPlayer.ID); err != nil {
		t.Errorf("unrelated player disappeared: %v", err)
	}
}

func TestDeleteEmptyTournament(t *testing.T) {
	env := newTournamentTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")
	tournament := tournamentFixture(t, env.tournaments, "Vacía", admin.ID)

	if err := env.svc.Delete(ctx, tournament); err != nil {
		t.Fatalf("Delete of empty tournament: %v", err)
	}
	if len(env.uploader.deleted) != 0 {
		t.Errorf("attachments released = %d, want 0", len(env.uploader.deleted))
	}
}

func TestUpdateTournamentNameConflict(t *testing.T) {
	env := newTournamentTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")

	tournamentFixture(t, env.tournaments, "Copa A", admin.ID)
	second := tournamentFixture(t, env.tournaments, "Copa B", admin.ID)

	_, err := env.svc.Update(ctx, second, TournamentInput{
		Name:      "Copa A",
		DateStart: second.DateStart,
		DateEnd:   second.DateEnd,
	})
	if !errors.Is(err, ErrTournamentNameConflict) {
		t.Fatalf("Update error = %v, want ErrTournamentNameConflict", err)
	}
}

func TestUpdateTournamentKeepsOwnName(t *testing.T) {
	env := newTournamentTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")
	tournament := tournamentFixture(t, env.tournaments, "Copa IPN", admin.ID)

	updated, err := env.svc.Update(ctx, tournament, TournamentInput{
		Name:      "Copa IPN",
		DateStart: tournament.DateStart,
		DateEnd:   tournament.DateEnd.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("Update keeping own name: %v", err)
	}
	if updated.Name != "Copa IPN" {
		t.Errorf("name = %q, want Copa IPN", updated.Name)
	}
}
