package scholarships

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campuskit/scholarbase/internal/apperror"
)

// ScholarshipRepository defines the data access contract for award records.
// Implemented by the SQL store below and the in-memory fixture store.
type ScholarshipRepository interface {
	List(ctx context.Context) ([]Scholarship, error)
	FindByID(ctx context.Context, id string) (*Scholarship, error)
	ListByStudentEmail(ctx context.Context, email string) ([]Scholarship, error)
	ListByDepartment(ctx context.Context, department string) ([]Scholarship, error)
	ListBySupervisor(ctx context.Context, supervisorEmail string) ([]Scholarship, error)
}

type scholarshipRepository struct {
	db *sql.DB
}

// NewScholarshipRepository creates a SQL-backed scholarship repository.
func NewScholarshipRepository(db *sql.DB) ScholarshipRepository {
	return &scholarshipRepository{db: db}
}

const scholarshipColumns = `id, student_id, session, status, basic_amount, hra_amount,
	student_email, department, supervisor_email, start_date, end_date`

func scanScholarship(row interface{ Scan(...any) error }) (*Scholarship, error) {
	s := &Scholarship{}
	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.Session,
		&s.Status,
		&s.BasicAmount,
		&s.HRAAmount,
		&s.StudentEmail,
		&s.Department,
		&s.SupervisorEmail,
		&s.StartDate,
		&s.EndDate,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *scholarshipRepository) query(ctx context.Context, query string, args ...any) ([]Scholarship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scholarships: %w", err)
	}
	defer rows.Close()

	var out []Scholarship
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scholarship row: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *scholarshipRepository) List(ctx context.Context) ([]Scholarship, error) {
	return r.query(ctx, `SELECT `+scholarshipColumns+` FROM scholarships ORDER BY start_date DESC`)
}

// FindByID retrieves one award record.
// Returns apperror.NotFound if no record exists with this ID.
func (r *scholarshipRepository) FindByID(ctx context.Context, id string) (*Scholarship, error) {
	query := `SELECT ` + scholarshipColumns + ` FROM scholarships WHERE id = ?`

	s, err := scanScholarship(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("scholarship not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying scholarship by id: %w", err)
	}
	return s, nil
}

func (r *scholarshipRepository) ListByStudentEmail(ctx context.Context, email string) ([]Scholarship, error) {
	return r.query(ctx,
		`SELECT `+scholarshipColumns+` FROM scholarships WHERE student_email = ? ORDER BY start_date DESC`,
		email)
}

func (r *scholarshipRepository) ListByDepartment(ctx context.Context, department string) ([]Scholarship, error) {
	return r.query(ctx,
		`SELECT `+scholarshipColumns+` FROM scholarships WHERE department = ? ORDER BY start_date DESC`,
		department)
}

func (r *scholarshipRepository) ListBySupervisor(ctx context.Context, supervisorEmail string) ([]Scholarship, error) {
	return r.query(ctx,
		`SELECT `+scholarshipColumns+` FROM scholarships WHERE supervisor_email = ? ORDER BY start_date DESC`,
		supervisorEmail)
}
