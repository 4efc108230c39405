package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/config"
	"github.com/tooba16/real-states/internal/constants"
	"github.com/tooba16/real-states/internal/dtos"
	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/policy"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/utils"
)

// ReservationService runs the unit status state machine: hold placement,
// release, extension and the expiry sweep. Conversion of holds into
// bookings lives in BookingService; both share the same atomic storage
// transitions.
type ReservationService struct {
	cfg      *config.Config
	unitRepo repositories.UnitRepository
	projRepo repositories.ProjectRepository
	consent  *ConsentService
}

func NewReservationService(
	cfg *config.Config,
	unitRepo repositories.UnitRepository,
	projRepo repositories.ProjectRepository,
	consent *ConsentService,
) *ReservationService {
	return &ReservationService{cfg: cfg, unitRepo: unitRepo, projRepo: projRepo, consent: consent}
}

// PlaceHold reserves an available unit for the actor until now+ttl.
// Exactly one of two concurrent attempts on the same unit succeeds; the
// loser observes the winner's hold and gets a conflict error.
func (s *ReservationService) PlaceHold(ctx context.Context, in dtos.PlaceHoldInput, actor models.Actor) (*models.Unit, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}
	ttl := in.TTL
	if ttl <= 0 {
		ttl = s.cfg.DefaultHoldTTL
	}

	for attempt := 0; attempt < constants.MaxUpdateRetries; attempt++ {
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
		if err := policy.Authorize(actor, policy.CapPlaceHold, tenant); err != nil {
			return nil, err
		}

		if unit.Status != models.UnitStatusAvailable {
			if attempt > 0 {
				// The unit was available when we started; someone else won.
				return nil, &utils.ConflictError{EntityID: unit.ID, Detail: "unit already allocated"}
			}
			return nil, utils.ErrInvalidTransition
		}

		if err := s.consent.CheckConsent(ctx, unit); err != nil {
			return nil, err
		}

		updated, err := s.unitRepo.PlaceHoldAtomic(ctx, unit.ID, unit.RowVersion, actor.ID, time.Now().UTC().Add(ttl))
		if errors.Is(err, utils.ErrRowVersionConflict) || errors.Is(err, utils.ErrInvalidTransition) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, &utils.ConflictError{EntityID: in.UnitID, Detail: "too much contention placing hold"}
}

// ReleaseHold cancels an active hold, restoring the unit to available.
// Only the holder or an elevated actor may release.
func (s *ReservationService) ReleaseHold(ctx context.Context, unitID uuid.UUID, actor models.Actor) (*models.Unit, error) {
	for attempt := 0; attempt < constants.MaxUpdateRetries; attempt++ {
		unit, err := s.holdForActor(ctx, unitID, policy.CapReleaseHold, actor)
		if err != nil {
			return nil, err
		}

		updated, err := s.unitRepo.ClearHoldAtomic(ctx, unit.ID, unit.RowVersion, actor.ID)
		if errors.Is(err, utils.ErrRowVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, &utils.ConflictError{EntityID: unitID, Detail: "too much contention releasing hold"}
}

// ExtendHold pushes an active hold's expiry out by the given duration.
// The new expiry may not exceed the configured maximum extension horizon,
// and a hold that already lapsed cannot be extended.
func (s *ReservationService) ExtendHold(ctx context.Context, unitID uuid.UUID, extension time.Duration, actor models.Actor) (*models.Unit, error) {
	if extension <= 0 {
		return nil, fmt.Errorf("%w: extension must be positive", utils.ErrValidation)
	}

	for attempt := 0; attempt < constants.MaxUpdateRetries; attempt++ {
		unit, err := s.holdForActor(ctx, unitID, policy.CapExtendHold, actor)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		if unit.HoldExpired(now) {
			return nil, utils.ErrHoldExpired
		}
		newExpiry := unit.HoldExpiresAt.Add(extension)
		if newExpiry.After(now.Add(s.cfg.MaxHoldExtension)) {
			return nil, fmt.Errorf("%w: extension exceeds maximum hold horizon", utils.ErrValidation)
		}

		updated, err := s.unitRepo.ExtendHoldAtomic(ctx, unit.ID, unit.RowVersion, newExpiry, actor.ID)
		if errors.Is(err, utils.ErrRowVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, &utils.ConflictError{EntityID: unitID, Detail: "too much contention extending hold"}
}

// ExpireHolds sweeps every lapsed hold back to available and returns the
// affected unit ids. Safe to run concurrently with conversions: whichever
// side locks the unit row first wins.
func (s *ReservationService) ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	ids, err := s.unitRepo.ExpireHolds(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		utils.Logger.Infof("Expired %d lapsed hold(s)", len(ids))
	}
	return ids, nil
}

// holdForActor loads the unit, verifies it is on hold, and checks
// capability, tenant scope and holder ownership.
func (s *ReservationService) holdForActor(ctx context.Context, unitID uuid.UUID, cap policy.Capability, actor models.Actor) (*models.Unit, error) {
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

	if unit.Status != models.UnitStatusOnHold {
		return nil, utils.ErrInvalidTransition
	}
	if unit.HolderID == nil || (*unit.HolderID != actor.ID && !policy.ElevatedScope(actor)) {
		return nil, utils.ErrForbidden
	}
	return unit, nil
}
