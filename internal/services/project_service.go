package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/config"
	"github.com/tooba16/real-states/internal/dtos"
	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/policy"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/utils"
)

// ProjectService creates projects under the tenant's concurrent-project
// quota. The count and the insert run in one transaction holding the
// tenant row lock, so racing creations cannot both slip under the cap.
type ProjectService struct {
	cfg        *config.Config
	projRepo   repositories.ProjectRepository
	tenantRepo repositories.TenantRepository
}

func NewProjectService(cfg *config.Config, projRepo repositories.ProjectRepository, tenantRepo repositories.TenantRepository) *ProjectService {
	return &ProjectService{cfg: cfg, projRepo: projRepo, tenantRepo: tenantRepo}
}

// CreateProject registers an active project if the tenant still has quota.
func (s *ProjectService) CreateProject(ctx context.Context, in dtos.CreateProjectInput, actor models.Actor) (*models.Project, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.CapCreateProject, in.TenantID); err != nil {
		return nil, err
	}

	max, err := s.maxProjects(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	p := &models.Project{
		ID:          uuid.New(),
		TenantID:    in.TenantID,
		Name:        in.Name,
		Status:      models.ProjectStatusActive,
		CreatedByID: actor.ID,
	}
	if err := s.projRepo.CreateWithQuota(ctx, p, max); err != nil {
		return nil, err
	}
	return p, nil
}

// RemainingQuota reports how many more projects the tenant may create.
// Advisory only; CreateProject re-checks under the tenant row lock.
func (s *ProjectService) RemainingQuota(ctx context.Context, tenantID uuid.UUID, actor models.Actor) (int, error) {
	if !actor.PlatformScoped() && actor.TenantID != tenantID {
		return 0, utils.ErrTenantMismatch
	}
	max, err := s.maxProjects(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	active, err := s.projRepo.CountActiveByTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if remaining := max - active; remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}

// GetProject fetches a project within the actor's tenant scope.
func (s *ProjectService) GetProject(ctx context.Context, projectID uuid.UUID, actor models.Actor) (*models.Project, error) {
	p, err := s.projRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}
	if !actor.PlatformScoped() && actor.TenantID != p.TenantID {
		return nil, utils.ErrTenantMismatch
	}
	return p, nil
}

// maxProjects resolves the tenant's cap, falling back to the configured
// default when the tenant has none set.
func (s *ProjectService) maxProjects(ctx context.Context, tenantID uuid.UUID) (int, error) {
	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if t == nil {
		return 0, utils.ErrNotFound
	}
	if t.MaxProjects > 0 {
		return t.MaxProjects, nil
	}
	return s.cfg.MaxProjectsDefault, nil
}
