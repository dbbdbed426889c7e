package students

import (
	"context"
	"fmt"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// StudentService scopes directory reads to the caller's role. Handlers pass
// the authenticated identity; the service decides what slice of the
// directory that identity may see.
type StudentService interface {
	ListFor(ctx context.Context, who auth.Identity) ([]Student, error)
	GetFor(ctx context.Context, who auth.Identity, id string) (*Student, error)
}

type studentService struct {
	repo StudentRepository
}

// NewStudentService creates a student directory service.
func NewStudentService(repo StudentRepository) StudentService {
	return &studentService{repo: repo}
}

// ListFor returns the students visible to the caller: the dean sees all,
// an HOD their department, a supervisor their assigned scholars. Students
// do not reach this service (the route's role guard excludes them).
func (s *studentService) ListFor(ctx context.Context, who auth.Identity) ([]Student, error) {
	var (
		out []Student
		err error
	)
	switch who.Role {
	case auth.RoleDean:
		out, err = s.repo.List(ctx)
	case auth.RoleHOD:
		out, err = s.repo.ListByDepartment(ctx, who.Department)
	case auth.RoleSupervisor:
		out, err = s.repo.ListBySupervisor(ctx, who.Email)
	default:
		return nil, apperror.NewForbidden("You do not have permission to perform this action")
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing students: %w", err))
	}
	return out, nil
}

// GetFor returns one student if the caller's scope covers them. Lookups
// outside the caller's scope return 404 rather than 403 so the response
// does not confirm the record exists.
func (s *studentService) GetFor(ctx context.Context, who auth.Identity, id string) (*Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewNotFound("Student not found")
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading student: %w", err))
	}

	switch who.Role {
	case auth.RoleDean:
		return student, nil
	case auth.RoleHOD:
		if student.Department == who.Department {
			return student, nil
		}
	case auth.RoleSupervisor:
		if student.SupervisorEmail == who.Email {
			return student, nil
		}
	case auth.RoleStudent:
		if student.Email == who.Email {
			return student, nil
		}
	}
	return nil, apperror.NewNotFound("Student not found")
}
