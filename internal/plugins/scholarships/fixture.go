package scholarships

import (
	"context"
	"sync"
	"time"

	"github.com/campuskit/scholarbase/internal/apperror"
)

// fixtureRepository is the in-memory ScholarshipRepository used in fixture
// mode and in tests.
type fixtureRepository struct {
	mu      sync.RWMutex
	records []Scholarship
}

// NewFixtureRepository creates a repository preloaded with the given
// records. Passing nil loads the default fixture set.
func NewFixtureRepository(records []Scholarship) ScholarshipRepository {
	if records == nil {
		records = defaultFixtures()
	}
	return &fixtureRepository{records: records}
}

func (r *fixtureRepository) List(ctx context.Context) ([]Scholarship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Scholarship, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *fixtureRepository) FindByID(ctx context.Context, id string) (*Scholarship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.records {
		if r.records[i].ID == id {
			s := r.records[i]
			return &s, nil
		}
	}
	return nil, apperror.NewNotFound("scholarship not found")
}

func (r *fixtureRepository) ListByStudentEmail(ctx context.Context, email string) ([]Scholarship, error) {
	return r.filter(func(s Scholarship) bool { return s.StudentEmail == email })
}

func (r *fixtureRepository) ListByDepartment(ctx context.Context, department string) ([]Scholarship, error) {
	return r.filter(func(s Scholarship) bool { return s.Department == department })
}

func (r *fixtureRepository) ListBySupervisor(ctx context.Context, supervisorEmail string) ([]Scholarship, error) {
	return r.filter(func(s Scholarship) bool { return s.SupervisorEmail == supervisorEmail })
}

func (r *fixtureRepository) filter(keep func(Scholarship) bool) ([]Scholarship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Scholarship
	for _, s := range r.records {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// defaultFixtures returns the built-in award records. IDs and scoping
// fields line up with the student directory fixtures.
func defaultFixtures() []Scholarship {
	end2023 := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	return []Scholarship{
		{
			ID: "sch1", StudentID: "s1", Session: "2023-24", Status: StatusApproved,
			BasicAmount: 8000, HRAAmount: 2000,
			StudentEmail: "arjun.nair@student.nitsrinagar.ac.in",
			Department:   "Computer Science", SupervisorEmail: "priya.patel@nitsrinagar.ac.in",
			StartDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "sch2", StudentID: "s1", Session: "2022-23", Status: StatusCompleted,
			BasicAmount: 8000, HRAAmount: 2000,
			StudentEmail: "arjun.nair@student.nitsrinagar.ac.in",
			Department:   "Computer Science", SupervisorEmail: "priya.patel@nitsrinagar.ac.in",
			StartDate: time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   &end2023,
		},
		{
			ID: "sch3", StudentID: "s2", Session: "2023-24", Status: StatusInProgress,
			BasicAmount: 10000, HRAAmount: 2500,
			StudentEmail: "meera.iyer@student.nitsrinagar.ac.in",
			Department:   "Electrical Engineering", SupervisorEmail: "vikram.singh@nitsrinagar.ac.in",
			StartDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "sch4", StudentID: "s3", Session: "2023-24", Status: StatusPending,
			BasicAmount: 15000, HRAAmount: 3000,
			StudentEmail: "raj.kumar@student.nitsrinagar.ac.in",
			Department:   "Computer Science", SupervisorEmail: "rajesh.kumar@nitsrinagar.ac.in",
			StartDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}
