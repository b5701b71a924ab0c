package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const patientColumns = `id, first_name, last_name, date_of_birth, gender, email, phone,
	address, city, state, zip, emergency_contact_name, emergency_contact_phone,
	blood_type, allergies, medical_conditions, current_medications,
	status, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Gender,
		&p.Email,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.State,
		&p.Zip,
		&p.EmergencyContactName,
		&p.EmergencyContactPhone,
		&p.BloodType,
		&p.Allergies,
		&p.MedicalConditions,
		&p.CurrentMedications,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) List(ctx context.Context, f Filter) ([]Patient, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(first_name || ' ' || last_name) ILIKE $%d", len(args)))
	}

	query := `SELECT ` + patientColumns + ` FROM patients`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY updated_at DESC, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	return scanPatient(row)
}

func (r *PgRepository) Create(ctx context.Context, p *Patient) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (`+patientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Email, p.Phone,
		p.Address, p.City, p.State, p.Zip, p.EmergencyContactName, p.EmergencyContactPhone,
		p.BloodType, p.Allergies, p.MedicalConditions, p.CurrentMedications,
		p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert patient: %w", err)
	}

	return nil
}

func (r *PgRepository) Update(ctx context.Context, id string, fn func(p *Patient) error) (*Patient, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p, err := scanPatient(tx.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE patients
		SET first_name = $2, last_name = $3, date_of_birth = $4, gender = $5, email = $6, phone = $7,
		    address = $8, city = $9, state = $10, zip = $11,
		    emergency_contact_name = $12, emergency_contact_phone = $13,
		    blood_type = $14, allergies = $15, medical_conditions = $16, current_medications = $17,
		    status = $18, updated_at = $19
		WHERE id = $1
	`,
		id, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Email, p.Phone,
		p.Address, p.City, p.State, p.Zip, p.EmergencyContactName, p.EmergencyContactPhone,
		p.BloodType, p.Allergies, p.MedicalConditions, p.CurrentMedications,
		p.Status, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.ID = id
	return p, nil
}

func (r *PgRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}
