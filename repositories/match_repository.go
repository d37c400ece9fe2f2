package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchInvalidTournament = errors.New("invalid match tournament reference")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error
	Delete(ctx context.Context, id int) error
	DeleteByTournament(ctx context.Context, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, team_local, team_visitor, score_local, score_visitor, team_winner,
	date, place, status, tournament_id, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches (
			team_local, team_visitor, score_local, score_visitor, team_winner,
			date, place, status, tournament_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		m.TeamLocal, m.TeamVisitor, m.ScoreLocal, m.ScoreVisitor, m.TeamWinner,
		m.Date, m.Place, m.Status, m.TournamentID,
	).Scan(&m.ID, &m.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TeamLocal, &m.TeamVisitor, &m.ScoreLocal, &m.ScoreVisitor, &m.TeamWinner,
		&m.Date, &m.Place, &m.Status, &m.TournamentID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID, &m.TeamLocal, &m.TeamVisitor, &m.ScoreLocal, &m.ScoreVisitor, &m.TeamWinner,
			&m.Date, &m.Place, &m.Status, &m.TournamentID, &m.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, m *models.Match) error {
	query := `
		UPDATE matches SET
			team_local = $1,
			team_visitor = $2,
			score_local = $3,
			score_visitor = $4,
			team_winner = $5,
			date = $6,
			place = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		m.TeamLocal, m.TeamVisitor, m.ScoreLocal, m.ScoreVisitor, m.TeamWinner,
		m.Date, m.Place, m.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// Delete tolerates an already-absent match: cascades must be safe to
// re-issue.
func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	return err
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, tournamentID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	return err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" && pqErr.Constraint == "matches_tournament_id_fkey" {
			return ErrMatchInvalidTournament
		}
	}
	return err
}
