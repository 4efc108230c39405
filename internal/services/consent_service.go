package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/dtos"
	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/policy"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/utils"
)

// ConsentService decides whether an investor-locked unit may change
// allocation state, and manages the assignments and consent records the
// decision is based on.
type ConsentService struct {
	assignRepo repositories.AssignmentRepository
	unitRepo   repositories.UnitRepository
	projRepo   repositories.ProjectRepository
}

func NewConsentService(
	assignRepo repositories.AssignmentRepository,
	unitRepo repositories.UnitRepository,
	projRepo repositories.ProjectRepository,
) *ConsentService {
	return &ConsentService{assignRepo: assignRepo, unitRepo: unitRepo, projRepo: projRepo}
}

// CheckConsent returns nil when the unit's state may change. For an
// investor-locked unit every active consent-required assignment must have
// an unrevoked consent record; otherwise a ConsentRequiredError naming the
// unsatisfied assignments is returned.
func (s *ConsentService) CheckConsent(ctx context.Context, unit *models.Unit) error {
	if !unit.InvestorLocked {
		return nil
	}

	assignments, err := s.assignRepo.ListActiveByUnit(ctx, unit.ID)
	if err != nil {
		return err
	}

	var unsatisfied []uuid.UUID
	for _, a := range assignments {
		if !a.ConsentRequired {
			continue
		}
		rec, err := s.assignRepo.GetActiveConsent(ctx, a.ID)
		if err != nil {
			return err
		}
		if rec == nil {
			unsatisfied = append(unsatisfied, a.ID)
		}
	}
	if len(unsatisfied) > 0 {
		return &utils.ConsentRequiredError{UnitID: unit.ID, UnsatisfiedAssignments: unsatisfied}
	}
	return nil
}

// AssignInvestor records an investor's share in a unit. Admin-scoped.
func (s *ConsentService) AssignInvestor(ctx context.Context, in dtos.AssignInvestorInput, actor models.Actor) (*models.InvestorAssignment, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.GetByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, utils.ErrNotFound
	}
	tenant, err := projectTenant(ctx, s.projRepo, unit.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.CapAssignInvestor, tenant); err != nil {
		return nil, err
	}

	a := &models.InvestorAssignment{
		ID:              uuid.New(),
		InvestorID:      in.InvestorID,
		UnitID:          in.UnitID,
		PercentageShare: in.PercentageShare,
		ConsentRequired: in.ConsentRequired,
		Status:          models.AssignmentStatusActive,
		CreatedByID:     actor.ID,
	}
	if err := s.assignRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeactivateAssignment retires an assignment; it no longer participates
// in the consent gate. Admin-scoped.
func (s *ConsentService) DeactivateAssignment(ctx context.Context, assignmentID uuid.UUID, actor models.Actor) error {
	a, err := s.assignRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a == nil {
		return utils.ErrNotFound
	}
	unit, err := s.unitRepo.GetByID(ctx, a.UnitID)
	if err != nil {
		return err
	}
	if unit == nil {
		return utils.ErrNotFound
	}
	tenant, err := projectTenant(ctx, s.projRepo, unit.ProjectID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.CapAssignInvestor, tenant); err != nil {
		return err
	}
	if a.Status == models.AssignmentStatusInactive {
		return utils.ErrAlreadyInState
	}
	return s.assignRepo.Deactivate(ctx, a.ID, actor.ID)
}

// GrantConsent records that the assignment's investor consents to
// allocation changes. Investors may only grant for their own assignments.
func (s *ConsentService) GrantConsent(ctx context.Context, assignmentID uuid.UUID, actor models.Actor) (*models.ConsentRecord, error) {
	a, err := s.authorizedAssignment(ctx, assignmentID, actor)
	if err != nil {
		return nil, err
	}

	existing, err := s.assignRepo.GetActiveConsent(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrAlreadyInState
	}

	rec := &models.ConsentRecord{
		ID:           uuid.New(),
		AssignmentID: a.ID,
		GrantedByID:  actor.ID,
		GrantedAt:    time.Now().UTC(),
	}
	if err := s.assignRepo.CreateConsent(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RevokeConsent withdraws the assignment's active consent record.
func (s *ConsentService) RevokeConsent(ctx context.Context, assignmentID uuid.UUID, actor models.Actor) error {
	a, err := s.authorizedAssignment(ctx, assignmentID, actor)
	if err != nil {
		return err
	}

	rec, err := s.assignRepo.GetActiveConsent(ctx, a.ID)
	if err != nil {
		return err
	}
	if rec == nil {
		return utils.ErrNotFound
	}
	return s.assignRepo.RevokeConsent(ctx, rec.ID, time.Now().UTC())
}

// ListAssignments returns the unit's active investor assignments.
func (s *ConsentService) ListAssignments(ctx context.Context, unitID uuid.UUID) ([]*models.InvestorAssignment, error) {
	return s.assignRepo.ListActiveByUnit(ctx, unitID)
}

func (s *ConsentService) authorizedAssignment(ctx context.Context, assignmentID uuid.UUID, actor models.Actor) (*models.InvestorAssignment, error) {
	a, err := s.assignRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, utils.ErrNotFound
	}

	unit, err := s.unitRepo.GetByID(ctx, a.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, utils.ErrNotFound
	}
	tenant, err := projectTenant(ctx, s.projRepo, unit.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.CapManageConsent, tenant); err != nil {
		return nil, err
	}

	// Investors act only on their own assignments.
	if actor.Role == models.RoleInvestor {
		if actor.InvestorID == nil || *actor.InvestorID != a.InvestorID {
			return nil, utils.ErrForbidden
		}
	}
	return a, nil
}
