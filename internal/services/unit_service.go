package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/constants"
	"github.com/tooba16/real-states/internal/dtos"
	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/policy"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/utils"
)

// UnitService manages the inventory registry: creation, descriptive field
// updates, investor locking and the inactive lifecycle. Allocation status
// changes are owned by ReservationService and BookingService.
type UnitService struct {
	unitRepo repositories.UnitRepository
	projRepo repositories.ProjectRepository
}

func NewUnitService(unitRepo repositories.UnitRepository, projRepo repositories.ProjectRepository) *UnitService {
	return &UnitService{unitRepo: unitRepo, projRepo: projRepo}
}

// CreateUnit registers a new unit as available. The phase block, when
// given, must belong to the unit's project, and the investor, when given,
// must belong to the project's tenant.
func (s *UnitService) CreateUnit(ctx context.Context, in dtos.CreateUnitInput, actor models.Actor) (*models.Unit, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}

	tenant, err := projectTenant(ctx, s.projRepo, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.CapCreateUnit, tenant); err != nil {
		return nil, err
	}

	if in.PhaseBlockID != nil {
		owner, err := s.projRepo.PhaseBlockProject(ctx, *in.PhaseBlockID)
		if errors.Is(err, utils.ErrNotFound) {
			return nil, fmt.Errorf("%w: phase block %s", utils.ErrInvalidReference, *in.PhaseBlockID)
		}
		if err != nil {
			return nil, err
		}
		if owner != in.ProjectID {
			return nil, fmt.Errorf("%w: phase block belongs to another project", utils.ErrInvalidReference)
		}
	}

	if in.InvestorLocked && in.InvestorID == nil {
		return nil, fmt.Errorf("%w: investor_locked requires investor_id", utils.ErrValidation)
	}
	if in.InvestorID != nil {
		invTenant, err := s.projRepo.InvestorTenant(ctx, *in.InvestorID)
		if errors.Is(err, utils.ErrNotFound) {
			return nil, fmt.Errorf("%w: investor %s", utils.ErrInvalidReference, *in.InvestorID)
		}
		if err != nil {
			return nil, err
		}
		if invTenant != tenant {
			return nil, utils.ErrTenantMismatch
		}
	}

	u := &models.Unit{
		ID:             uuid.New(),
		ProjectID:      in.ProjectID,
		PhaseBlockID:   in.PhaseBlockID,
		UnitNumber:     in.UnitNumber,
		UnitType:       in.UnitType,
		Category:       in.Category,
		Size:           in.Size,
		Price:          in.Price,
		Status:         models.UnitStatusAvailable,
		InvestorLocked: in.InvestorLocked,
		InvestorID:     in.InvestorID,
		Remarks:        in.Remarks,
		CreatedByID:    actor.ID,
	}
	if err := s.unitRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUnit fetches a unit within the actor's tenant scope.
func (s *UnitService) GetUnit(ctx context.Context, unitID uuid.UUID, actor models.Actor) (*models.Unit, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
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
	if !actor.PlatformScoped() && actor.TenantID != tenant {
		return nil, utils.ErrTenantMismatch
	}
	return unit, nil
}

// ListUnitsByProject lists a project's units for actors in its tenant.
func (s *UnitService) ListUnitsByProject(ctx context.Context, projectID uuid.UUID, actor models.Actor) ([]*models.Unit, error) {
	tenant, err := projectTenant(ctx, s.projRepo, projectID)
	if err != nil {
		return nil, err
	}
	if !actor.PlatformScoped() && actor.TenantID != tenant {
		return nil, utils.ErrTenantMismatch
	}
	return s.unitRepo.ListByProjectID(ctx, projectID)
}

// UpdateUnitFields edits descriptive attributes. Status, holder and hold
// expiry are never touched here, whatever the input carries.
func (s *UnitService) UpdateUnitFields(ctx context.Context, unitID uuid.UUID, in dtos.UpdateUnitFieldsInput, actor models.Actor) (*models.Unit, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.authorizedUnit(ctx, unitID, policy.CapUpdateUnit, actor); err != nil {
		return nil, err
	}

	err := s.unitRepo.UpdateWithRetry(ctx, unitID, func(cur *models.Unit) error {
		if in.PhaseBlockID != nil {
			owner, err := s.projRepo.PhaseBlockProject(ctx, *in.PhaseBlockID)
			if errors.Is(err, utils.ErrNotFound) {
				return fmt.Errorf("%w: phase block %s", utils.ErrInvalidReference, *in.PhaseBlockID)
			}
			if err != nil {
				return err
			}
			if owner != cur.ProjectID {
				return fmt.Errorf("%w: phase block belongs to another project", utils.ErrInvalidReference)
			}
			cur.PhaseBlockID = in.PhaseBlockID
		}
		if in.UnitNumber != nil {
			cur.UnitNumber = *in.UnitNumber
		}
		if in.Category != nil {
			cur.Category = *in.Category
		}
		if in.Size != nil {
			cur.Size = *in.Size
		}
		if in.Price != nil {
			cur.Price = *in.Price
		}
		if in.Remarks != nil {
			cur.Remarks = *in.Remarks
		}
		cur.UpdatedByID = &actor.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.unitRepo.GetByID(ctx, unitID)
}

// SetInvestorLock toggles the consent gate on a unit. Locking requires an
// investor reference in the same tenant; unlocking clears it.
func (s *UnitService) SetInvestorLock(ctx context.Context, unitID uuid.UUID, locked bool, investorID *uuid.UUID, actor models.Actor) (*models.Unit, error) {
	unit, err := s.authorizedUnit(ctx, unitID, policy.CapLockUnit, actor)
	if err != nil {
		return nil, err
	}
	tenant, err := projectTenant(ctx, s.projRepo, unit.ProjectID)
	if err != nil {
		return nil, err
	}

	if locked {
		if investorID == nil {
			return nil, fmt.Errorf("%w: locking requires investor_id", utils.ErrValidation)
		}
		invTenant, err := s.projRepo.InvestorTenant(ctx, *investorID)
		if errors.Is(err, utils.ErrNotFound) {
			return nil, fmt.Errorf("%w: investor %s", utils.ErrInvalidReference, *investorID)
		}
		if err != nil {
			return nil, err
		}
		if invTenant != tenant {
			return nil, utils.ErrTenantMismatch
		}
	}

	err = s.unitRepo.UpdateWithRetry(ctx, unitID, func(cur *models.Unit) error {
		cur.InvestorLocked = locked
		if locked {
			cur.InvestorID = investorID
		} else {
			cur.InvestorID = nil
		}
		cur.UpdatedByID = &actor.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.unitRepo.GetByID(ctx, unitID)
}

// DeactivateUnit withdraws a unit from sale. Allowed from available and
// booked; a held unit must have its hold released first, and sold units
// are permanent history.
func (s *UnitService) DeactivateUnit(ctx context.Context, unitID uuid.UUID, actor models.Actor) (*models.Unit, error) {
	for attempt := 0; attempt < constants.MaxUpdateRetries; attempt++ {
		unit, err := s.authorizedUnit(ctx, unitID, policy.CapDeactivateUnit, actor)
		if err != nil {
			return nil, err
		}
		if unit.Status == models.UnitStatusInactive {
			return nil, utils.ErrAlreadyInState
		}
		if unit.Status != models.UnitStatusAvailable && unit.Status != models.UnitStatusBooked {
			return nil, utils.ErrInvalidTransition
		}

		updated, err := s.unitRepo.DeactivateAtomic(ctx, unit.ID, unit.RowVersion, actor.ID)
		if errors.Is(err, utils.ErrRowVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, &utils.ConflictError{EntityID: unitID, Detail: "too much contention deactivating unit"}
}

// ReactivateUnit restores an inactive unit to available. Platform-scoped
// capability.
func (s *UnitService) ReactivateUnit(ctx context.Context, unitID uuid.UUID, actor models.Actor) (*models.Unit, error) {
	for attempt := 0; attempt < constants.MaxUpdateRetries; attempt++ {
		unit, err := s.authorizedUnit(ctx, unitID, policy.CapReactivateUnit, actor)
		if err != nil {
			return nil, err
		}
		if unit.Status == models.UnitStatusAvailable {
			return nil, utils.ErrAlreadyInState
		}
		if unit.Status != models.UnitStatusInactive {
			return nil, utils.ErrInvalidTransition
		}

		updated, err := s.unitRepo.ReactivateAtomic(ctx, unit.ID, unit.RowVersion, actor.ID)
		if errors.Is(err, utils.ErrRowVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, &utils.ConflictError{EntityID: unitID, Detail: "too much contention reactivating unit"}
}

func (s *UnitService) authorizedUnit(ctx context.Context, unitID uuid.UUID, cap policy.Capability, actor models.Actor) (*models.Unit, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
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
	if err := policy.Authorize(actor, cap, tenant); err != nil {
		return nil, err
	}
	return unit, nil
}
