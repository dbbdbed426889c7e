package students

import (
	"context"
	"sync"
	"time"

	"github.com/campuskit/scholarbase/internal/apperror"
)

// fixtureRepository is the in-memory StudentRepository used in fixture
// mode and in tests. Read-only after construction, so a plain RWMutex
// around slice copies is enough.
type fixtureRepository struct {
	mu       sync.RWMutex
	students []Student
}

// NewFixtureRepository creates a repository preloaded with the given
// records. Passing nil loads the default fixture set.
func NewFixtureRepository(records []Student) StudentRepository {
	if records == nil {
		records = defaultFixtures()
	}
	return &fixtureRepository{students: records}
}

func (r *fixtureRepository) List(ctx context.Context) ([]Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Student, len(r.students))
	copy(out, r.students)
	return out, nil
}

func (r *fixtureRepository) FindByID(ctx context.Context, id string) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.students {
		if r.students[i].ID == id {
			s := r.students[i]
			return &s, nil
		}
	}
	return nil, apperror.NewNotFound("student not found")
}

func (r *fixtureRepository) FindByEmail(ctx context.Context, email string) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.students {
		if r.students[i].Email == email {
			s := r.students[i]
			return &s, nil
		}
	}
	return nil, apperror.NewNotFound("student not found")
}

func (r *fixtureRepository) ListByDepartment(ctx context.Context, department string) ([]Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Student
	for _, s := range r.students {
		if s.Department == department {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fixtureRepository) ListBySupervisor(ctx context.Context, supervisorEmail string) ([]Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Student
	for _, s := range r.students {
		if s.SupervisorEmail == supervisorEmail {
			out = append(out, s)
		}
	}
	return out, nil
}

// defaultFixtures returns the built-in scholar records used in fixture
// mode. Supervisor emails match the seeded faculty accounts.
func defaultFixtures() []Student {
	return []Student{
		{
			ID: "s1", Enroll: "ENR001", Registration: "REG001",
			Name: "Arjun Nair", Email: "arjun.nair@student.nitsrinagar.ac.in",
			PhoneNumber: "9876500001", Address: "Hostel Block A, NIT Srinagar",
			Department: "Computer Science", Course: "B.Tech", University: "NIT Srinagar",
			JoiningDate:     time.Date(2022, 8, 15, 0, 0, 0, 0, time.UTC),
			SupervisorEmail: "priya.patel@nitsrinagar.ac.in",
			ScholarshipBasic: 8000, ScholarshipHRA: 2000,
		},
		{
			ID: "s2", Enroll: "ENR002", Registration: "REG002",
			Name: "Meera Iyer", Email: "meera.iyer@student.nitsrinagar.ac.in",
			PhoneNumber: "9876500002", Address: "Hostel Block C, NIT Srinagar",
			Department: "Electrical Engineering", Course: "M.Tech", University: "NIT Srinagar",
			JoiningDate:     time.Date(2022, 7, 10, 0, 0, 0, 0, time.UTC),
			SupervisorEmail: "vikram.singh@nitsrinagar.ac.in",
			ScholarshipBasic: 10000, ScholarshipHRA: 2500,
		},
		{
			ID: "s3", Enroll: "ENR003", Registration: "REG003",
			Name: "Raj Kumar", Email: "raj.kumar@student.nitsrinagar.ac.in",
			PhoneNumber: "9876500003", Address: "Research Scholars Hostel, NIT Srinagar",
			Department: "Computer Science", Course: "PhD", University: "NIT Srinagar",
			JoiningDate:     time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC),
			SupervisorEmail: "rajesh.kumar@nitsrinagar.ac.in",
			ScholarshipBasic: 15000, ScholarshipHRA: 3000,
		},
		{
			ID: "s4", Enroll: "ENR004", Registration: "REG004",
			Name: "Priya Sharma", Email: "priya.sharma@student.nitsrinagar.ac.in",
			PhoneNumber: "9876500004", Address: "Hostel Block B, NIT Srinagar",
			Department: "Mechanical Engineering", Course: "M.Tech", University: "NIT Srinagar",
			JoiningDate:     time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC),
			SupervisorEmail: "neha.verma@nitsrinagar.ac.in",
			ScholarshipBasic: 10000, ScholarshipHRA: 2500,
		},
	}
}
