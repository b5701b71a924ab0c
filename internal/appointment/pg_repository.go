package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `id, patient_id, patient_name, date, end_time, type, status, notes, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var endTime *time.Time

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.PatientName,
		&a.Date,
		&endTime,
		&a.Type,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Date = a.Date.UTC()
	if endTime != nil {
		end := endTime.UTC()
		a.EndTime = &end
	}
	return &a, nil
}

// Interface methods

func (r *PgRepository) List(ctx context.Context, f Filter) ([]Appointment, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.PatientID != "" {
		add("patient_id = $%d", f.PatientID)
	}
	if !f.From.IsZero() {
		add("date >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("date < $%d", f.To)
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date ASC, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	return scanAppointment(row)
}

func (r *PgRepository) Create(ctx context.Context, a *Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, a.PatientID, a.PatientName, a.Date, a.EndTime, a.Type, a.Status, a.Notes, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert appointment: %w", err)
	}

	return nil
}

func (r *PgRepository) Update(ctx context.Context, id string, fn func(a *Appointment) error) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	a, err := scanAppointment(tx.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	if err := fn(a); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE appointments
		SET patient_id = $2,
		    patient_name = $3,
		    date = $4,
		    end_time = $5,
		    type = $6,
		    status = $7,
		    notes = $8,
		    updated_at = $9
		WHERE id = $1
	`, id, a.PatientID, a.PatientName, a.Date, a.EndTime, a.Type, a.Status, a.Notes, a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	a.ID = id
	return a, nil
}

func (r *PgRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
