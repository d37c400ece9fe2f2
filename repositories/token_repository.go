package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/emilianozm24/baloncesto-api/models"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	GetByValue(ctx context.Context, value string) (*models.Token, error)
	Delete(ctx context.Context, id int) error
	DeleteByUser(ctx context.Context, userID int) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type postgresTokenRepository struct {
	db *sql.DB
}

func NewPostgresTokenRepository(db *sql.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) Create(ctx context.Context, token *models.Token) error {
	query := `
		INSERT INTO tokens (value, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		token.Value, token.UserID, token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *postgresTokenRepository) GetByValue(ctx context.Context, value string) (*models.Token, error) {
	query := `SELECT id, value, user_id, expires_at, created_at FROM tokens WHERE value = $1`

	t := &models.Token{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&t.ID, &t.Value, &t.UserID, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTokenRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTokenNotFound)
}

func (r *postgresTokenRepository) DeleteByUser(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID)
	return err
}

func (r *postgresTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
