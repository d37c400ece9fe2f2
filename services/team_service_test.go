package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type teamTestEnv struct {
	svc         TeamService
	tournaments *memTournamentRepo
	teams       *memTeamRepo
	players     *memPlayerRepo
	uploader    *memUploader
	users       *memUserRepo
}

func newTeamTestEnv() *teamTestEnv {
	env := &teamTestEnv{
		tournaments: newMemTournamentRepo(),
		teams:       newMemTeamRepo(),
		players:     newMemPlayerRepo(),
		uploader:    newMemUploader(),
		users:       newMemUserRepo(),
	}
	env.svc = NewTeamService(env.teams, env.players, env.tournaments, env.uploader, slog.Default())
	return env
}

func TestCreateTeamRegistersInTournament(t *testing.T) {
	env := newTeamTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")
	tournament := tournamentFixture(t, env.tournaments, "Copa IPN", admin.ID)

	team, err := env.svc.Create(ctx, tournament, TeamInput{
		Name:   "Águilas",
		Coach:  "Coach Pérez",
		Branch: "varonil",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, err := env.tournaments.GetByID(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.TeamIDs) != 1 || stored.TeamIDs[0] != int64(team.ID) {
		t.Errorf("tournament TeamIDs = %v, want [%d]", stored.TeamIDs, team.ID)
	}
}

func TestCreateTeamRequiresAllFields(t *testing.T) {
	env := newTeamTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")
	tournament := tournamentFixture(t, env.tournaments, "Copa IPN", admin.ID)

	_, err := env.svc.Create(ctx, tournament, TeamInput{Name: "Águilas", Branch: "varonil"})
	if !errors.Is(err, ErrTeamFieldsRequired) {
		t.Fatalf("error = %v, want ErrTeamFieldsRequired", err)
	}
}

func TestTeamUniquenessScope(t *testing.T) {
	env := newTeamTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")
	copa := tournamentFixture(t, env.tournaments, "Copa IPN", admin.ID)
	liga := tournamentFixture(t, env.tournaments, "Liga IPN", admin.ID)

	input := TeamInput{Name: "Águilas", Coach: "Coach Pérez", Branch: "varonil"}
	if _, err := env.svc.Create(ctx, copa, input); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Same name, same branch, same tournament: conflict.
	if _, err := env.svc.Create(ctx, copa, input); !errors.Is(err, ErrTeamConflict) {
		t.Errorf("duplicate in same tournament error = %v, want ErrTeamConflict", err)
	}

	// Same name, different branch: allowed.
	femenil := input
	femenil.Branch = "femenil"
	if _, err := env.svc.Create(ctx, copa, femenil); err != nil {
		t.Errorf("same name different branch: %v", err)
	}

	// Same name and branch, different tournament: allowed.
	if _, err := env.svc.Create(ctx, liga, input); err != nil {
		t.Errorf("same name different tournament: %v", err)
	}
}

func TestDeleteTeamRemovesPlayersAndAttachments(t *testing.T) {
	env := newTeamTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")
	tournament := tournamentFixture(t, env.tournaments, "Copa IPN", admin.ID)

	team, err := env.svc.Create(ctx, tournament, TeamInput{
		Name:   "Águilas",
		Coach:  "Coach Pérez",
		Branch: "varonil",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var attachments int
	for i := 1; i <= 3; i++ {
		player := playerFixture(t, env.players, team.ID, i)
		attachments += len(player.AttachmentKeys())
	}

	if err := env.svc.Delete(ctx, tournament, team); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if players, _ := env.players.ListByTeam(ctx, team.ID); len(players) != 0 {
		t.Errorf("players left = %d, want 0", len(players))
	}
	if len(env.uploader.deleted) != attachments {
		t.Errorf("attachments released = %d, want %d", len(env.uploader.deleted), attachments)
	}

	stored, err := env.tournaments.GetByID(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.TeamIDs) != 0 {
		t.Errorf("tournament TeamIDs = %v, want empty", stored.TeamIDs)
	}
}

func TestUpdateTeamKeepsOwnKey(t *testing.T) {
	env := newTeamTestEnv()
	ctx := context.Background()
	admin := userFixture(t, env.users, "admin@example.com")
	copa := tournamentFixture(t, env.tournaments, "Copa IPN", admin.ID)

	team, err := env.svc.Create(ctx, copa, TeamInput{Name: "Águilas", Coach: "Coach Pérez", Branch: "varonil"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Changing only the coach keeps the same (name, tournament, branch)
	// key and must not trip the conflict check against itself.
	updated, err := env.svc.Update(ctx, team, TeamInput{Name: "Águilas", Coach: "Coach García", Branch: "varonil"})
	if err != nil {
		t.Fatalf("Update keeping own key: %v", err)
	}
	if updated.Coach != "Coach García" {
		t.Errorf("coach = %q, want Coach García", updated.Coach)
	}
}
