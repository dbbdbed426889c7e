package faculty

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// fixtureRepository serves the roster from memory.
type fixtureRepository struct {
	mu      sync.RWMutex
	faculty []Faculty
}

// NewFixtureRepository creates a repository preloaded with the given
// records. Passing nil projects the supervisors from the predefined
// account set.
func NewFixtureRepository(records []Faculty) FacultyRepository {
	if records == nil {
		records = defaultFixtures()
	}
	return &fixtureRepository{faculty: records}
}

func (r *fixtureRepository) List(ctx context.Context) ([]Faculty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Faculty, len(r.faculty))
	copy(out, r.faculty)
	return out, nil
}

func (r *fixtureRepository) ListByDepartment(ctx context.Context, department string) ([]Faculty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Faculty
	for _, f := range r.faculty {
		if f.Department == department {
			out = append(out, f)
		}
	}
	return out, nil
}

// defaultFixtures projects the predefined supervisor accounts into
// directory entries.
func defaultFixtures() []Faculty {
	var out []Faculty
	for _, acct := range auth.SeedAccounts {
		if acct.Role != auth.RoleSupervisor {
			continue
		}
		f := Faculty{
			ID:          uuid.NewString(),
			Name:        acct.Name,
			Email:       acct.Email,
			Department:  acct.Department,
			Designation: acct.Designation,
		}
		if acct.Course != "" {
			course := acct.Course
			f.Course = &course
		}
		out = append(out, f)
	}
	return out
}
