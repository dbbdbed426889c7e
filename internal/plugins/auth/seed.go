package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// seedPassword is the shared password for the predefined accounts. Fixture
// mode only; never enabled in production.
const seedPassword = "password123"

// SeedAccount describes one predefined login used in fixture mode.
type SeedAccount struct {
	Email       string
	Name        string
	Role        Role
	Department  string
	Designation string
	Course      string // empty unless the role carries one
}

// SeedAccounts is the predefined account set: one dean, one HOD per
// department, course-wise supervisors, and a student for each supervised
// course.
var SeedAccounts = []SeedAccount{
	{Email: "dean@nitsrinagar.ac.in", Name: "Dr. Prakash Verma", Role: RoleDean,
		Department: "Administration", Designation: "Dean of Academic Affairs"},

	{Email: "hod.cs@nitsrinagar.ac.in", Name: "Dr. Aditya Sharma", Role: RoleHOD,
		Department: "Computer Science", Designation: "Professor & Head of Department"},
	{Email: "hod.ee@nitsrinagar.ac.in", Name: "Dr. Sneha Gupta", Role: RoleHOD,
		Department: "Electrical Engineering", Designation: "Professor & Head of Department"},
	{Email: "hod.me@nitsrinagar.ac.in", Name: "Dr. Aamir Khan", Role: RoleHOD,
		Department: "Mechanical Engineering", Designation: "Professor & Head of Department"},
	{Email: "hod.ce@nitsrinagar.ac.in", Name: "Dr. Sunil Mehta", Role: RoleHOD,
		Department: "Civil Engineering", Designation: "Professor & Head of Department"},
	{Email: "hod.ch@nitsrinagar.ac.in", Name: "Dr. Anjali Desai", Role: RoleHOD,
		Department: "Chemical Engineering", Designation: "Professor & Head of Department"},

	{Email: "priya.patel@nitsrinagar.ac.in", Name: "Dr. Priya Patel", Role: RoleSupervisor,
		Department: "Computer Science", Designation: "Associate Professor", Course: "B.Tech"},
	{Email: "rajesh.kumar@nitsrinagar.ac.in", Name: "Dr. Rajesh Kumar", Role: RoleSupervisor,
		Department: "Computer Science", Designation: "Professor", Course: "PhD"},
	{Email: "vikram.singh@nitsrinagar.ac.in", Name: "Dr. Vikram Singh", Role: RoleSupervisor,
		Department: "Electrical Engineering", Designation: "Assistant Professor", Course: "M.Tech"},
	{Email: "neha.verma@nitsrinagar.ac.in", Name: "Dr. Neha Verma", Role: RoleSupervisor,
		Department: "Mechanical Engineering", Designation: "Assistant Professor", Course: "M.Tech"},
	{Email: "divya.joshi@nitsrinagar.ac.in", Name: "Dr. Divya Joshi", Role: RoleSupervisor,
		Department: "Civil Engineering", Designation: "Assistant Professor", Course: "B.Tech"},

	{Email: "arjun.nair@student.nitsrinagar.ac.in", Name: "Arjun Nair", Role: RoleStudent,
		Department: "Computer Science", Designation: "Research Scholar", Course: "B.Tech"},
	{Email: "meera.iyer@student.nitsrinagar.ac.in", Name: "Meera Iyer", Role: RoleStudent,
		Department: "Electrical Engineering", Designation: "Research Scholar", Course: "M.Tech"},
}

// Seed inserts the predefined accounts into the repository, skipping any
// email that already exists so restarts are idempotent. bcryptCost applies
// to the shared seed password.
func Seed(ctx context.Context, repo UserRepository, bcryptCost int) error {
	hash, err := HashPassword(seedPassword, bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	created := 0
	for _, acct := range SeedAccounts {
		exists, err := repo.EmailExists(ctx, acct.Email)
		if err != nil {
			return fmt.Errorf("checking seed account %s: %w", acct.Email, err)
		}
		if exists {
			continue
		}

		now := time.Now().UTC()
		user := &User{
			ID:           uuid.NewString(),
			Email:        acct.Email,
			Name:         acct.Name,
			PasswordHash: hash,
			Role:         acct.Role,
			Department:   acct.Department,
			Designation:  acct.Designation,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if acct.Course != "" {
			course := acct.Course
			user.Course = &course
		}

		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("seeding account %s: %w", acct.Email, err)
		}
		created++
	}

	slog.Info("seeded predefined accounts",
		slog.Int("created", created),
		slog.Int("total", len(SeedAccounts)),
	)
	return nil
}
