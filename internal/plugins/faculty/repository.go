package faculty

import (
	"context"
	"database/sql"
	"fmt"
)

// FacultyRepository reads the supervisor roster. Backed by the users table
// in SQL mode; the fixture implementation projects the predefined accounts.
type FacultyRepository interface {
	List(ctx context.Context) ([]Faculty, error)
	ListByDepartment(ctx context.Context, department string) ([]Faculty, error)
}

type facultyRepository struct {
	db *sql.DB
}

// NewFacultyRepository creates a repository over the shared users table.
func NewFacultyRepository(db *sql.DB) FacultyRepository {
	return &facultyRepository{db: db}
}

const facultyColumns = `id, name, email, department, designation, course`

func (r *facultyRepository) query(ctx context.Context, query string, args ...any) ([]Faculty, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying faculty: %w", err)
	}
	defer rows.Close()

	var out []Faculty
	for rows.Next() {
		var f Faculty
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Department, &f.Designation, &f.Course); err != nil {
			return nil, fmt.Errorf("scanning faculty row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *facultyRepository) List(ctx context.Context) ([]Faculty, error) {
	return r.query(ctx,
		`SELECT `+facultyColumns+` FROM users WHERE role = 'supervisor' ORDER BY name`)
}

func (r *facultyRepository) ListByDepartment(ctx context.Context, department string) ([]Faculty, error) {
	return r.query(ctx,
		`SELECT `+facultyColumns+` FROM users WHERE role = 'supervisor' AND department = ? ORDER BY name`,
		department)
}
