package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	authz "github.com/yigit/registrar/internal/app/auth"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
)

// DashboardService builds the landing page for an authenticated principal
type DashboardService struct {
	repos  *repositories.Repositories
	guard  *authz.Guard
	gate   *authz.Gate
	logger zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repos *repositories.Repositories, guard *authz.Guard, gate *authz.Gate, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		repos:  repos,
		guard:  guard,
		gate:   gate,
		logger: logger,
	}
}

// GetDashboard returns the caller's identity and, for staff, the directory totals
func (s *DashboardService) GetDashboard(ctx context.Context, principal string) (*dto.DashboardResponse, error) {
	claim, err := s.guard.Check(ctx, principal, authz.OpViewDashboard)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Username: claim.Username,
		Role:     claim.Role,
	}
	if !s.gate.Allowed(claim.Role, authz.OpViewCounts) {
		return resp, nil
	}

	counts := &dto.DashboardCount{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts.Students, err = s.repos.StudentRepository.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Teachers, err = s.repos.TeacherRepository.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Courses, err = s.repos.CourseRepository.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Departments, err = s.repos.DepartmentRepository.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error counting directory records: %w", err)
	}

	resp.Counts = counts
	return resp, nil
}
