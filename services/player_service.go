package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/pdf"
	"github.com/emilianozm24/baloncesto-api/repositories"
	"github.com/emilianozm24/baloncesto-api/storage"
	"github.com/google/uuid"
)

type PlayerService interface {
	Create(ctx context.Context, team *models.Team, input PlayerInput, uploads map[models.AttachmentKind]*AttachmentUpload) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	Update(ctx context.Context, player *models.Player, input PlayerInput, uploads map[models.AttachmentKind]*AttachmentUpload) (*models.Player, error)
	Delete(ctx context.Context, team *models.Team, player *models.Player) error
	RenderRoster(ctx context.Context, team *models.Team) ([]byte, error)
}

type PlayerInput struct {
	Name      string
	LastName  string
	NumberIPN int
	Number    int
	CURP      string
	Position  string
}

// AttachmentUpload carries one incoming document from the multipart
// form. The handler has already checked size and content type.
type AttachmentUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

func (in *PlayerInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.LastName = strings.TrimSpace(in.LastName)
	in.CURP = strings.ToUpper(strings.TrimSpace(in.CURP))
	in.Position = strings.TrimSpace(in.Position)
	if in.Name == "" || in.LastName == "" || in.CURP == "" || in.Position == "" {
		return ErrPlayerFieldsRequired
	}
	if in.NumberIPN <= 0 || in.Number <= 0 {
		return ErrPlayerFieldsRequired
	}
	return nil
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	uploader   storage.FileUploader
	renderer   pdf.Renderer
	logger     *slog.Logger
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	renderer pdf.Renderer,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		uploader:   uploader,
		renderer:   renderer,
		logger:     logger,
	}
}

func (s *playerService) Create(ctx context.Context, team *models.Team, input PlayerInput, uploads map[models.AttachmentKind]*AttachmentUpload) (*models.Player, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	for _, kind := range models.AttachmentKinds {
		if uploads[kind] == nil {
			return nil, fmt.Errorf("%w: %s", ErrAttachmentMissing, kind)
		}
	}

	player := &models.Player{
		Name:      input.Name,
		LastName:  input.LastName,
		NumberIPN: input.NumberIPN,
		Number:    input.Number,
		CURP:      input.CURP,
		Position:  input.Position,
		TeamID:    team.ID,
	}

	stored, err := s.storeUploads(ctx, uploads)
	if err != nil {
		return nil, err
	}
	for kind, key := range stored {
		player.SetAttachmentKey(kind, key)
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		// The row never landed, so the fresh blobs are orphans.
		s.releaseKeys(ctx, storedValues(stored))
		return nil, mapPlayerRepoError(err)
	}

	if err := s.teamRepo.AddPlayerID(ctx, team.ID, player.ID); err != nil {
		return nil, fmt.Errorf("failed to register player in team: %w", err)
	}

	s.populateURLs(player)
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	s.populateURLs(player)
	return player, nil
}

func (s *playerService) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for i := range players {
		s.populateURLs(&players[i])
	}
	return players, nil
}

// Update applies field changes and optional attachment replacements.
// Replacement files are uploaded before the row is touched; the old
// blobs are released only once the row holds the new keys, so a failed
// update never leaves the player pointing at deleted files.
func (s *playerService) Update(ctx context.Context, player *models.Player, input PlayerInput, uploads map[models.AttachmentKind]*AttachmentUpload) (*models.Player, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	player.Name = input.Name
	player.LastName = input.LastName
	player.NumberIPN = input.NumberIPN
	player.Number = input.Number
	player.CURP = input.CURP
	player.Position = input.Position

	stored, err := s.storeUploads(ctx, uploads)
	if err != nil {
		return nil, err
	}

	var replaced []string
	for kind, key := range stored {
		if old := player.AttachmentKey(kind); old != "" {
			replaced = append(replaced, old)
		}
		player.SetAttachmentKey(kind, key)
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		s.releaseKeys(ctx, storedValues(stored))
		return nil, mapPlayerRepoError(err)
	}

	s.releaseKeys(ctx, replaced)
	s.populateURLs(player)
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, team *models.Team, player *models.Player) error {
	keys := player.AttachmentKeys()

	if err := s.playerRepo.Delete(ctx, player.ID); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if err := s.teamRepo.RemovePlayerID(ctx, team.ID, player.ID); err != nil {
		return fmt.Errorf("failed to deregister player from team: %w", err)
	}

	s.releaseKeys(ctx, keys)
	return nil
}

func (s *playerService) RenderRoster(ctx context.Context, team *models.Team) ([]byte, error) {
	players, err := s.playerRepo.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	document, err := s.renderer.RenderTeamRoster(team, players)
	if err != nil {
		return nil, fmt.Errorf("failed to render roster: %w", err)
	}
	return document, nil
}

func (s *playerService) storeUploads(ctx context.Context, uploads map[models.AttachmentKind]*AttachmentUpload) (map[models.AttachmentKind]string, error) {
	stored := make(map[models.AttachmentKind]string, len(uploads))
	for kind, upload := range uploads {
		key := fmt.Sprintf("players/%s/%s%s", kind, uuid.NewString(), filepath.Ext(upload.Filename))
		if _, err := s.uploader.Upload(ctx, key, upload.ContentType, upload.Reader); err != nil {
			s.releaseKeys(ctx, storedValues(stored))
			return nil, fmt.Errorf("failed to upload %s: %w", kind, err)
		}
		stored[kind] = key
	}
	return stored, nil
}

func (s *playerService) releaseKeys(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.uploader.Delete(ctx, key); err != nil {
			s.logger.Error("failed to release attachment",
				slog.String("key", key), slog.Any("error", err))
		}
	}
}

func (s *playerService) populateURLs(player *models.Player) {
	player.IDCardURL = s.uploader.GetPublicURL(player.IDCardKey)
	player.ScheduleURL = s.uploader.GetPublicURL(player.ScheduleKey)
	player.PhotoURL = s.uploader.GetPublicURL(player.PhotoKey)
	player.MedicalExamURL = s.uploader.GetPublicURL(player.MedicalExamKey)
}

func storedValues(stored map[models.AttachmentKind]string) []string {
	keys := make([]string, 0, len(stored))
	for _, key := range stored {
		keys = append(keys, key)
	}
	return keys
}

func mapPlayerRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPlayerCURPConflict):
		return ErrPlayerCURPConflict
	case errors.Is(err, repositories.ErrPlayerNumberConflict):
		return ErrPlayerNumberConflict
	case errors.Is(err, repositories.ErrPlayerNumberIPNConflict):
		return ErrPlayerIPNConflict
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	default:
		return fmt.Errorf("failed to store player: %w", err)
	}
}
