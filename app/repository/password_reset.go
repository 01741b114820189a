package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
)

type PasswordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Upsert writes the single outstanding reset row for an email. email is the
// primary key, so a repeat request replaces the token and timestamp instead
// of inserting a second row.
func (r *PasswordResetRepository) Upsert(ctx context.Context, reset *entity.PasswordReset) error {
	query := `
		INSERT INTO password_resets (email, token, created_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE token = VALUES(token), created_at = VALUES(created_at)
	`
	_, err := r.db.ExecContext(ctx, query,
		reset.Email,
		reset.Token,
		reset.CreatedAt,
	)
	return err
}

func (r *PasswordResetRepository) FindByToken(ctx context.Context, token string) (*entity.PasswordReset, error) {
	query := `
		SELECT email, token, created_at
		FROM password_resets WHERE token = ?
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, token))
}

func (r *PasswordResetRepository) DeleteByEmail(ctx context.Context, email string) error {
	query := `DELETE FROM password_resets WHERE email = ?`
	_, err := r.db.ExecContext(ctx, query, email)
	return err
}

func (r *PasswordResetRepository) scanOne(row *sql.Row) (*entity.PasswordReset, error) {
	reset := &entity.PasswordReset{}
	err := row.Scan(
		&reset.Email,
		&reset.Token,
		&reset.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reset, nil
}
