package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/repositories"
	"github.com/emilianozm24/baloncesto-api/storage"
	"golang.org/x/sync/errgroup"
)

// releaseWorkers bounds concurrent blob deletes during a cascade.
const releaseWorkers = 4

type TournamentService interface {
	Create(ctx context.Context, admin *models.User, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament, input TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, tournament *models.Tournament) error
}

type TournamentInput struct {
	Name      string    `json:"tournamentName"`
	DateStart time.Time `json:"dateStart"`
	DateEnd   time.Time `json:"dateEnd"`
}

func (in *TournamentInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrTournamentNameRequired
	}
	if in.DateStart.IsZero() || in.DateEnd.IsZero() {
		return fmt.Errorf("%w: dateStart and dateEnd are required", ErrValidationFailed)
	}
	if in.DateEnd.Before(in.DateStart) {
		return ErrTournamentInvalidDates
	}
	return nil
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, admin *models.User, input TournamentInput) (*models.Tournament, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, input.Name, 0); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:      input.Name,
		DateStart: input.DateStart,
		DateEnd:   input.DateEnd,
		AdminID:   admin.ID,
		TeamIDs:   []int64{},
		MatchIDs:  []int64{},
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament teams: %w", err)
	}
	tournament.Teams = teams
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, tournament *models.Tournament, input TournamentInput) (*models.Tournament, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, input.Name, tournament.ID); err != nil {
		return nil, err
	}

	tournament.Name = input.Name
	tournament.DateStart = input.DateStart
	tournament.DateEnd = input.DateEnd

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return tournament, nil
}

// checkNameFree reports the friendly conflict error before an insert or
// update is attempted. The unique index remains authoritative: a race
// that slips past this check still surfaces through the repository's
// constraint mapping.
func (s *tournamentService) checkNameFree(ctx context.Context, name string, selfID int) error {
	existing, err := s.tournamentRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check tournament name: %w", err)
	}
	if existing.ID != selfID {
		return ErrTournamentNameConflict
	}
	return nil
}

// Delete removes the tournament and everything under it: players first
// (with their stored attachments), then teams, then matches, then the
// tournament row itself. Blob releases are best effort; a failed delete
// in the object store is logged and does not leave half the hierarchy
// behind.
func (s *tournamentService) Delete(ctx context.Context, tournament *models.Tournament) error {
	teams, err := s.teamRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return fmt.Errorf("failed to list tournament teams: %w", err)
	}

	var keys []string
	for _, team := range teams {
		players, err := s.playerRepo.ListByTeam(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("failed to list team players: %w", err)
		}
		for i := range players {
			keys = append(keys, players[i].AttachmentKeys()...)
			if err := s.playerRepo.Delete(ctx, players[i].ID); err != nil {
				return fmt.Errorf("failed to delete player %d: %w", players[i].ID, err)
			}
		}
		if err := s.teamRepo.Delete(ctx, team.ID); err != nil {
			return fmt.Errorf("failed to delete team %d: %w", team.ID, err)
		}
	}

	if err := s.matchRepo.DeleteByTournament(ctx, tournament.ID); err != nil {
		return fmt.Errorf("failed to delete tournament matches: %w", err)
	}

	if err := s.tournamentRepo.Delete(ctx, tournament.ID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament: %w", err)
	}

	s.releaseAttachments(ctx, keys)
	return nil
}

func (s *tournamentService) releaseAttachments(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(releaseWorkers)
	for _, key := range keys {
		g.Go(func() error {
			if err := s.uploader.Delete(ctx, key); err != nil {
				s.logger.Error("failed to release attachment",
					slog.String("key", key), slog.Any("error", err))
			}
			return nil
		})
	}
	g.Wait()
}
