package faculty

import (
	"context"
	"fmt"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// FacultyService scopes roster reads: the dean sees every supervisor, an
// HOD the supervisors in their department. Other roles never reach this
// service (the route's role guard excludes them).
type FacultyService interface {
	ListFor(ctx context.Context, who auth.Identity) ([]Faculty, error)
}

type facultyService struct {
	repo FacultyRepository
}

// NewFacultyService creates a faculty directory service.
func NewFacultyService(repo FacultyRepository) FacultyService {
	return &facultyService{repo: repo}
}

func (s *facultyService) ListFor(ctx context.Context, who auth.Identity) ([]Faculty, error) {
	var (
		out []Faculty
		err error
	)
	switch who.Role {
	case auth.RoleDean:
		out, err = s.repo.List(ctx)
	case auth.RoleHOD:
		out, err = s.repo.ListByDepartment(ctx, who.Department)
	default:
		return nil, apperror.NewForbidden("You do not have permission to perform this action")
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing faculty: %w", err))
	}
	return out, nil
}
