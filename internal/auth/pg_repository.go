package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, name, email, password_hash, specialty, license_number, role, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.Specialty,
		&a.LicenseNumber,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (r *PgRepository) Create(ctx context.Context, a *Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Specialty, a.LicenseNumber, a.Role, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "accounts_email_key" {
				return ErrEmailTaken
			}
			return ErrDuplicateID
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

func (r *PgRepository) Update(ctx context.Context, id string, fn func(a *Account) error) (*Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	a, err := scanAccount(tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	email := a.Email
	if err := fn(a); err != nil {
		return nil, err
	}
	a.ID = id
	a.Email = email

	_, err = tx.Exec(ctx, `
		UPDATE accounts
		SET name = $2, specialty = $3, license_number = $4, password_hash = $5, updated_at = $6
		WHERE id = $1
	`, id, a.Name, a.Specialty, a.LicenseNumber, a.PasswordHash, a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return a, nil
}
