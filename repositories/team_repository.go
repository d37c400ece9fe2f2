package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamKeyConflict       = errors.New("team name conflict for this tournament and branch")
	ErrTeamInvalidTournament = errors.New("invalid team tournament reference")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	// GetByKey resolves the composite uniqueness key (name, tournament, branch).
	GetByKey(ctx context.Context, name string, tournamentID int, branch string) (*models.Team, error)
	// GetByNameAndTournament resolves a team by name within a tournament,
	// branch ignored. Used by match creation, which references teams by name.
	GetByNameAndTournament(ctx context.Context, name string, tournamentID int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
	AddPlayerID(ctx context.Context, teamID, playerID int) error
	RemovePlayerID(ctx context.Context, teamID, playerID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, coach, branch, tournament_id, player_ids, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, t *models.Team) error {
	query := `
		INSERT INTO teams (name, coach, branch, tournament_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, player_ids, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Coach, t.Branch, t.TournamentID,
	).Scan(&t.ID, pq.Array(&t.PlayerIDs), &t.CreatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByKey(ctx context.Context, name string, tournamentID int, branch string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name = $1 AND tournament_id = $2 AND branch = $3`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name, tournamentID, branch))
}

func (r *postgresTeamRepository) GetByNameAndTournament(ctx context.Context, name string, tournamentID int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name = $1 AND tournament_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name, tournamentID))
}

func (r *postgresTeamRepository) scanOne(row *sql.Row) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(
		&t.ID, &t.Name, &t.Coach, &t.Branch, &t.TournamentID,
		pq.Array(&t.PlayerIDs), &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.Coach, &t.Branch, &t.TournamentID,
			pq.Array(&t.PlayerIDs), &t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, t *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			coach = $2,
			branch = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, t.Name, t.Coach, t.Branch, t.ID)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// Delete tolerates an already-absent team: cascades must be safe to
// re-issue.
func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	return err
}

func (r *postgresTeamRepository) AddPlayerID(ctx context.Context, teamID, playerID int) error {
	query := `UPDATE teams SET player_ids = array_append(player_ids, $1) WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, playerID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) RemovePlayerID(ctx context.Context, teamID, playerID int) error {
	query := `UPDATE teams SET player_ids = array_remove(player_ids, $1) WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, playerID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "teams_name_tournament_branch_key" {
				return ErrTeamKeyConflict
			}
		case "23503":
			if pqErr.Constraint == "teams_tournament_id_fkey" {
				return ErrTeamInvalidTournament
			}
		}
	}
	return err
}
