package scholarships

import (
	"context"
	"fmt"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// ScholarshipService scopes award reads to the caller's role: the dean
// sees all, an HOD their department, a supervisor their scholars, and a
// student their own awards.
type ScholarshipService interface {
	ListFor(ctx context.Context, who auth.Identity) ([]Scholarship, error)
	GetFor(ctx context.Context, who auth.Identity, id string) (*Scholarship, error)
}

type scholarshipService struct {
	repo ScholarshipRepository
}

// NewScholarshipService creates a scholarship service.
func NewScholarshipService(repo ScholarshipRepository) ScholarshipService {
	return &scholarshipService{repo: repo}
}

func (s *scholarshipService) ListFor(ctx context.Context, who auth.Identity) ([]Scholarship, error) {
	var (
		out []Scholarship
		err error
	)
	switch who.Role {
	case auth.RoleDean:
		out, err = s.repo.List(ctx)
	case auth.RoleHOD:
		out, err = s.repo.ListByDepartment(ctx, who.Department)
	case auth.RoleSupervisor:
		out, err = s.repo.ListBySupervisor(ctx, who.Email)
	case auth.RoleStudent:
		out, err = s.repo.ListByStudentEmail(ctx, who.Email)
	default:
		return nil, apperror.NewForbidden("You do not have permission to perform this action")
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing scholarships: %w", err))
	}
	return out, nil
}

// GetFor returns one award if the caller's scope covers it. Out-of-scope
// lookups return 404 so the response does not confirm the record exists.
func (s *scholarshipService) GetFor(ctx context.Context, who auth.Identity, id string) (*Scholarship, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewNotFound("Scholarship not found")
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading scholarship: %w", err))
	}

	switch who.Role {
	case auth.RoleDean:
		return record, nil
	case auth.RoleHOD:
		if record.Department == who.Department {
			return record, nil
		}
	case auth.RoleSupervisor:
		if record.SupervisorEmail == who.Email {
			return record, nil
		}
	case auth.RoleStudent:
		if record.StudentEmail == who.Email {
			return record, nil
		}
	}
	return nil, apperror.NewNotFound("Scholarship not found")
}
