package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict")
	ErrTournamentInvalidAdmin = errors.New("invalid tournament admin reference")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetByName(ctx context.Context, name string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id int) error
	AddTeamID(ctx context.Context, tournamentID, teamID int) error
	RemoveTeamID(ctx context.Context, tournamentID, teamID int) error
	AddMatchID(ctx context.Context, tournamentID, matchID int) error
	RemoveMatchID(ctx context.Context, tournamentID, matchID int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, date_start, date_end, admin_id, team_ids, match_ids, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, date_start, date_end, admin_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_ids, match_ids, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.DateStart, t.DateEnd, t.AdminID,
	).Scan(&t.ID, pq.Array(&t.TeamIDs), pq.Array(&t.MatchIDs), &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetByName(ctx context.Context, name string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE name = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *postgresTournamentRepository) scanOne(row *sql.Row) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID, &t.Name, &t.DateStart, &t.DateEnd, &t.AdminID,
		pq.Array(&t.TeamIDs), pq.Array(&t.MatchIDs), &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY date_start DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.DateStart, &t.DateEnd, &t.AdminID,
			pq.Array(&t.TeamIDs), pq.Array(&t.MatchIDs), &t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			date_start = $2,
			date_end = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, t.Name, t.DateStart, t.DateEnd, t.ID)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AddTeamID(ctx context.Context, tournamentID, teamID int) error {
	query := `UPDATE tournaments SET team_ids = array_append(team_ids, $1) WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, teamID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) RemoveTeamID(ctx context.Context, tournamentID, teamID int) error {
	query := `UPDATE tournaments SET team_ids = array_remove(team_ids, $1) WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, teamID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AddMatchID(ctx context.Context, tournamentID, matchID int) error {
	query := `UPDATE tournaments SET match_ids = array_append(match_ids, $1) WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, matchID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) RemoveMatchID(ctx context.Context, tournamentID, matchID int) error {
	query := `UPDATE tournaments SET match_ids = array_remove(match_ids, $1) WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, matchID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			if pqErr.Constraint == "tournaments_admin_id_fkey" {
				return ErrTournamentInvalidAdmin
			}
		}
	}
	return err
}
