package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campuskit/scholarbase/internal/apperror"
)

// StudentRepository defines the data access contract for student records.
// Two implementations exist: the SQL-backed one below and the in-memory
// fixture store in fixture.go. The choice is made once at composition time.
type StudentRepository interface {
	List(ctx context.Context) ([]Student, error)
	FindByID(ctx context.Context, id string) (*Student, error)
	FindByEmail(ctx context.Context, email string) (*Student, error)
	ListByDepartment(ctx context.Context, department string) ([]Student, error)
	ListBySupervisor(ctx context.Context, supervisorEmail string) ([]Student, error)
}

// studentRepository implements StudentRepository with MariaDB queries.
type studentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a SQL-backed student repository.
func NewStudentRepository(db *sql.DB) StudentRepository {
	return &studentRepository{db: db}
}

const studentColumns = `id, enroll, registration, name, email, phone_number, address,
	department, course, university, joining_date, supervisor_email,
	scholarship_basic, scholarship_hra`

func scanStudent(row interface{ Scan(...any) error }) (*Student, error) {
	s := &Student{}
	err := row.Scan(
		&s.ID,
		&s.Enroll,
		&s.Registration,
		&s.Name,
		&s.Email,
		&s.PhoneNumber,
		&s.Address,
		&s.Department,
		&s.Course,
		&s.University,
		&s.JoiningDate,
		&s.SupervisorEmail,
		&s.ScholarshipBasic,
		&s.ScholarshipHRA,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *studentRepository) queryStudents(ctx context.Context, query string, args ...any) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying students: %w", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning student row: %w", err)
		}
		out = append(out, *s)
	}

	return out, rows.Err()
}

// List returns every student ordered by enrollment number.
func (r *studentRepository) List(ctx context.Context) ([]Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY enroll`
	return r.queryStudents(ctx, query)
}

// FindByID retrieves a single student record.
// Returns apperror.NotFound if no student exists with this ID.
func (r *studentRepository) FindByID(ctx context.Context, id string) (*Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ?`

	s, err := scanStudent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("student not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying student by id: %w", err)
	}
	return s, nil
}

// FindByEmail retrieves the student record tied to a user account email.
func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = ?`

	s, err := scanStudent(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("student not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying student by email: %w", err)
	}
	return s, nil
}

// ListByDepartment returns a department's students ordered by enrollment number.
func (r *studentRepository) ListByDepartment(ctx context.Context, department string) ([]Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE department = ? ORDER BY enroll`
	return r.queryStudents(ctx, query, department)
}

// ListBySupervisor returns the students assigned to a supervisor.
func (r *studentRepository) ListBySupervisor(ctx context.Context, supervisorEmail string) ([]Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE supervisor_email = ? ORDER BY enroll`
	return r.queryStudents(ctx, query, supervisorEmail)
}
