package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound          = errors.New("player not found")
	ErrPlayerCURPConflict      = errors.New("player curp conflict")
	ErrPlayerNumberConflict    = errors.New("player jersey number conflict")
	ErrPlayerNumberIPNConflict = errors.New("player institutional id conflict")
	ErrPlayerInvalidTeam       = errors.New("invalid player team reference")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, name, last_name, number_ipn, number, curp, position, team_id,
	id_card_key, schedule_key, photo_key, medical_exam_key, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (
			name, last_name, number_ipn, number, curp, position, team_id,
			id_card_key, schedule_key, photo_key, medical_exam_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.LastName, p.NumberIPN, p.Number, p.CURP, p.Position, p.TeamID,
		p.IDCardKey, p.ScheduleKey, p.PhotoKey, p.MedicalExamKey,
	).Scan(&p.ID, &p.CreatedAt)

	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.LastName, &p.NumberIPN, &p.Number, &p.CURP, &p.Position, &p.TeamID,
		&p.IDCardKey, &p.ScheduleKey, &p.PhotoKey, &p.MedicalExamKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_id = $1 ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(
			&p.ID, &p.Name, &p.LastName, &p.NumberIPN, &p.Number, &p.CURP, &p.Position, &p.TeamID,
			&p.IDCardKey, &p.ScheduleKey, &p.PhotoKey, &p.MedicalExamKey, &p.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, p *models.Player) error {
	query := `
		UPDATE players SET
			name = $1,
			last_name = $2,
			number_ipn = $3,
			number = $4,
			curp = $5,
			position = $6,
			id_card_key = $7,
			schedule_key = $8,
			photo_key = $9,
			medical_exam_key = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.LastName, p.NumberIPN, p.Number, p.CURP, p.Position,
		p.IDCardKey, p.ScheduleKey, p.PhotoKey, p.MedicalExamKey,
		p.ID,
	)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// Delete tolerates an already-absent player: cascades must be safe to
// re-issue.
func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	return err
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			switch pqErr.Constraint {
			case "players_curp_key":
				return ErrPlayerCURPConflict
			case "players_number_key":
				return ErrPlayerNumberConflict
			case "players_number_ipn_key":
				return ErrPlayerNumberIPNConflict
			}
		case "23503":
			if pqErr.Constraint == "players_team_id_fkey" {
				return ErrPlayerInvalidTeam
			}
		}
	}
	return err
}
