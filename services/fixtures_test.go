package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/google/uuid"
)

func userFixture(t *testing.T, repo *memUserRepo, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: "$2a$10$fixture",
		Confirmed:    true,
		Role:         models.RoleAdmin,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("user fixture: %v", err)
	}
	return user
}

func tokenFixture(t *testing.T, repo *memTokenRepo, userID int, expiresAt time.Time) *models.Token {
	t.Helper()
	token := &models.Token{
		Value:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("token fixture: %v", err)
	}
	return token
}

func tournamentFixture(t *testing.T, repo *memTournamentRepo, name string, adminID int) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		Name:      name,
		DateStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		AdminID:   adminID,
	}
	if err := repo.Create(context.Background(), tournament); err != nil {
		t.Fatalf("tournament fixture: %v", err)
	}
	return tournament
}

func teamFixture(t *testing.T, repo *memTeamRepo, name, branch string, tournamentID int) *models.Team {
	t.Helper()
	team := &models.Team{
		Name:         name,
		Coach:        "Coach " + name,
		Branch:       branch,
		TournamentID: tournamentID,
	}
	if err := repo.Create(context.Background(), team); err != nil {
		t.Fatalf("team fixture: %v", err)
	}
	return team
}

func playerFixture(t *testing.T, repo *memPlayerRepo, teamID, number int) *models.Player {
	t.Helper()
	player := &models.Player{
		Name:      "Player",
		LastName:  uuid.NewString()[:8],
		NumberIPN: 2026000000 + number,
		Number:    number,
		CURP:      uuid.NewString()[:18],
		Position:  "guard",
		TeamID:    teamID,
	}
	for _, kind := range models.AttachmentKinds {
		player.SetAttachmentKey(kind, "players/"+string(kind)+"/"+uuid.NewString())
	}
	if err := repo.Create(context.Background(), player); err != nil {
		t.Fatalf("player fixture: %v", err)
	}
	return player
}
