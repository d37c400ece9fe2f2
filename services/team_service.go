package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/repositories"
	"github.com/emilianozm24/baloncesto-api/storage"
)

type TeamService interface {
	Create(ctx context.Context, tournament *models.Tournament, input TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team, input TeamInput) (*models.Team, error)
	Delete(ctx context.Context, tournament *models.Tournament, team *models.Team) error
}

type TeamInput struct {
	Name   string `json:"nameTeam"`
	Coach  string `json:"nameCoach"`
	Branch string `json:"branchTeam"`
}

func (in *TeamInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Coach = strings.TrimSpace(in.Coach)
	in.Branch = strings.TrimSpace(in.Branch)
	if in.Name == "" || in.Coach == "" || in.Branch == "" {
		return ErrTeamFieldsRequired
	}
	return nil
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *teamService) Create(ctx context.Context, tournament *models.Tournament, input TeamInput) (*models.Team, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkKeyFree(ctx, input, tournament.ID, 0); err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:         input.Name,
		Coach:        input.Coach,
		Branch:       input.Branch,
		TournamentID: tournament.ID,
		PlayerIDs:    []int64{},
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamKeyConflict) {
			return nil, ErrTeamConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if err := s.tournamentRepo.AddTeamID(ctx, tournament.ID, team.ID); err != nil {
		return nil, fmt.Errorf("failed to register team in tournament: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	players, err := s.playerRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list team players: %w", err)
	}
	team.Players = players
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, team *models.Team, input TeamInput) (*models.Team, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkKeyFree(ctx, input, team.TournamentID, team.ID); err != nil {
		return nil, err
	}

	team.Name = input.Name
	team.Coach = input.Coach
	team.Branch = input.Branch

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamKeyConflict) {
			return nil, ErrTeamConflict
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

// checkKeyFree reports the friendly conflict error before touching the
// row. The composite unique index is still the source of truth for
// racing writers.
func (s *teamService) checkKeyFree(ctx context.Context, input TeamInput, tournamentID, selfID int) error {
	existing, err := s.teamRepo.GetByKey(ctx, input.Name, tournamentID, input.Branch)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check team key: %w", err)
	}
	if existing.ID != selfID {
		return ErrTeamConflict
	}
	return nil
}

// Delete removes the team and its players, releasing the players'
// stored attachments after the rows are gone.
func (s *teamService) Delete(ctx context.Context, tournament *models.Tournament, team *models.Team) error {
	players, err := s.playerRepo.ListByTeam(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("failed to list team players: %w", err)
	}

	var keys []string
	for i := range players {
		keys = append(keys, players[i].AttachmentKeys()...)
		if err := s.playerRepo.Delete(ctx, players[i].ID); err != nil {
			return fmt.Errorf("failed to delete player %d: %w", players[i].ID, err)
		}
	}

	if err := s.teamRepo.Delete(ctx, team.ID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	if err := s.tournamentRepo.RemoveTeamID(ctx, tournament.ID, team.ID); err != nil {
		return fmt.Errorf("failed to deregister team from tournament: %w", err)
	}

	for _, key := range keys {
		if err := s.uploader.Delete(ctx, key); err != nil {
			s.logger.Error("failed to release attachment",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	return nil
}
