package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emilianozm24/baloncesto-api/live"
	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/repositories"
)

type MatchService interface {
	Create(ctx context.Context, tournament *models.Tournament, input MatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	Update(ctx context.Context, tournament *models.Tournament, match *models.Match, input MatchUpdateInput) (*models.Match, error)
	UpdateStatus(ctx context.Context, tournament *models.Tournament, match *models.Match, status models.MatchStatus) (*models.Match, error)
	Delete(ctx context.Context, tournament *models.Tournament, match *models.Match) error
}

// MatchInput carries the creation fields. Status is optional: an empty
// value means the match starts in progress, but a record of an
// already-played game can be created directly as finished.
type MatchInput struct {
	TeamLocal   string             `json:"teamLocal"`
	TeamVisitor string             `json:"teamVisitor"`
	Date        time.Time          `json:"date"`
	Place       string             `json:"place"`
	Status      models.MatchStatus `json:"status"`
}

// MatchUpdateInput replaces the mutable fields of a match. Empty team
// names keep the current pairing; supplying either one re-runs the
// same-tournament and same-branch checks.
type MatchUpdateInput struct {
	TeamLocal    string    `json:"teamLocal"`
	TeamVisitor  string    `json:"teamVisitor"`
	ScoreLocal   int       `json:"scoreLocal"`
	ScoreVisitor int       `json:"scoreVisitor"`
	TeamWinner   string    `json:"teamWinner"`
	Date         time.Time `json:"date"`
	Place        string    `json:"place"`
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	broadcaster    live.Broadcaster
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	broadcaster live.Broadcaster,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		broadcaster:    broadcaster,
	}
}

func (s *matchService) Create(ctx context.Context, tournament *models.Tournament, input MatchInput) (*models.Match, error) {
	localName := strings.TrimSpace(input.TeamLocal)
	visitorName := strings.TrimSpace(input.TeamVisitor)
	if localName == "" || visitorName == "" {
		return nil, ErrMatchTeamsRequired
	}
	if localName == visitorName {
		return nil, fmt.Errorf("%w: a team cannot play itself", ErrValidationFailed)
	}

	local, err := s.lookupTeam(ctx, localName, tournament.ID)
	if err != nil {
		return nil, err
	}
	visitor, err := s.lookupTeam(ctx, visitorName, tournament.ID)
	if err != nil {
		return nil, err
	}
	if local.Branch != visitor.Branch {
		return nil, ErrMatchBranchMismatch
	}

	status := input.Status
	if status == "" {
		status = models.MatchInProgress
	}
	if !status.Valid() {
		return nil, ErrInvalidMatchStatus
	}

	match := &models.Match{
		TeamLocal:    local.Name,
		TeamVisitor:  visitor.Name,
		Date:         input.Date,
		Place:        strings.TrimSpace(input.Place),
		Status:       status,
		TournamentID: tournament.ID,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchInvalidTournament) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	if err := s.tournamentRepo.AddMatchID(ctx, tournament.ID, match.ID); err != nil {
		return nil, fmt.Errorf("failed to register match in tournament: %w", err)
	}

	s.publish(tournament.ID, live.EventMatchCreated, match)
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) Update(ctx context.Context, tournament *models.Tournament, match *models.Match, input MatchUpdateInput) (*models.Match, error) {
	if input.ScoreLocal < 0 || input.ScoreVisitor < 0 {
		return nil, fmt.Errorf("%w: scores cannot be negative", ErrValidationFailed)
	}

	localName := strings.TrimSpace(input.TeamLocal)
	visitorName := strings.TrimSpace(input.TeamVisitor)
	if localName != "" || visitorName != "" {
		if localName == "" {
			localName = match.TeamLocal
		}
		if visitorName == "" {
			visitorName = match.TeamVisitor
		}
		if localName == visitorName {
			return nil, fmt.Errorf("%w: a team cannot play itself", ErrValidationFailed)
		}
		local, err := s.lookupTeam(ctx, localName, tournament.ID)
		if err != nil {
			return nil, err
		}
		visitor, err := s.lookupTeam(ctx, visitorName, tournament.ID)
		if err != nil {
			return nil, err
		}
		if local.Branch != visitor.Branch {
			return nil, ErrMatchBranchMismatch
		}
		match.TeamLocal = local.Name
		match.TeamVisitor = visitor.Name
	}

	if winner := strings.TrimSpace(input.TeamWinner); winner != "" {
		if winner != match.TeamLocal && winner != match.TeamVisitor {
			return nil, fmt.Errorf("%w: winner must be one of the playing teams", ErrValidationFailed)
		}
		match.TeamWinner = winner
	}

	match.ScoreLocal = input.ScoreLocal
	match.ScoreVisitor = input.ScoreVisitor
	if !input.Date.IsZero() {
		match.Date = input.Date
	}
	if place := strings.TrimSpace(input.Place); place != "" {
		match.Place = place
	}

	if err := s.matchRepo.Update(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	s.publish(tournament.ID, live.EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) UpdateStatus(ctx context.Context, tournament *models.Tournament, match *models.Match, status models.MatchStatus) (*models.Match, error) {
	if !status.Valid() {
		return nil, ErrInvalidMatchStatus
	}

	if err := s.matchRepo.UpdateStatus(ctx, match.ID, status); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}
	match.Status = status

	s.publish(tournament.ID, live.EventMatchStatusChanged, match)
	return match, nil
}

func (s *matchService) Delete(ctx context.Context, tournament *models.Tournament, match *models.Match) error {
	if err := s.matchRepo.Delete(ctx, match.ID); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	if err := s.tournamentRepo.RemoveMatchID(ctx, tournament.ID, match.ID); err != nil {
		return fmt.Errorf("failed to deregister match from tournament: %w", err)
	}

	s.publish(tournament.ID, live.EventMatchDeleted, match)
	return nil
}

func (s *matchService) lookupTeam(ctx context.Context, name string, tournamentID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByNameAndTournament(ctx, name, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMatchTeamsNotFound, name)
		}
		return nil, fmt.Errorf("failed to look up team %q: %w", name, err)
	}
	return team, nil
}

func (s *matchService) publish(tournamentID int, event string, match *models.Match) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRoom(strconv.Itoa(tournamentID), live.Message{
		Type:    event,
		Payload: match,
	})
}
