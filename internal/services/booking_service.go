package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/constants"
	"github.com/tooba16/real-states/internal/dtos"
	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/policy"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/utils"
)

// BookingService converts available or held units into confirmed bookings
// and handles cancellation and deletion. Every mutation pairs the booking
// write with the unit transition in one storage transaction.
type BookingService struct {
	unitRepo    repositories.UnitRepository
	bookingRepo repositories.BookingRepository
	projRepo    repositories.ProjectRepository
	consent     *ConsentService
}

func NewBookingService(
	unitRepo repositories.UnitRepository,
	bookingRepo repositories.BookingRepository,
	projRepo repositories.ProjectRepository,
	consent *ConsentService,
) *BookingService {
	return &BookingService{unitRepo: unitRepo, bookingRepo: bookingRepo, projRepo: projRepo, consent: consent}
}

// CreateBooking books a unit for a customer. The unit must be available,
// or on hold by the acting agent (or an elevated actor). A lapsed hold is
// reverted to available inside the same transaction and reported as
// ErrHoldExpired; the booking is not created.
func (s *BookingService) CreateBooking(ctx context.Context, in dtos.CreateBookingInput, actor models.Actor) (*models.Booking, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
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
		if err := policy.Authorize(actor, policy.CapCreateBooking, tenant); err != nil {
			return nil, err
		}

		switch unit.Status {
		case models.UnitStatusAvailable:
			// Direct bookings of locked units pass the consent gate; a hold
			// conversion already passed it at placement time.
			if err := s.consent.CheckConsent(ctx, unit); err != nil {
				return nil, err
			}
		case models.UnitStatusOnHold:
			if unit.HolderID == nil || (*unit.HolderID != actor.ID && !policy.ElevatedScope(actor)) {
				return nil, utils.ErrForbidden
			}
		default:
			if attempt > 0 {
				return nil, &utils.ConflictError{EntityID: unit.ID, Detail: "unit already allocated"}
			}
			return nil, utils.ErrInvalidTransition
		}

		now := time.Now().UTC()
		booking := &models.Booking{
			ID:          uuid.New(),
			UnitID:      unit.ID,
			ProjectID:   unit.ProjectID,
			CustomerID:  in.CustomerID,
			Amount:      in.Amount,
			Status:      models.BookingStatusConfirmed,
			Type:        in.Type,
			Reference:   newBookingReference(now),
			BookedAt:    now,
			Remarks:     in.Remarks,
			CreatedByID: actor.ID,
		}

		created, err := s.bookingRepo.CreateForUnit(ctx, booking, unit.RowVersion, now)
		if errors.Is(err, utils.ErrRowVersionConflict) || errors.Is(err, utils.ErrInvalidTransition) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return created, nil
	}
	return nil, &utils.ConflictError{EntityID: in.UnitID, Detail: "too much contention creating booking"}
}

// CancelBooking marks the booking cancelled and reverts its unit to
// available in one atomic step. Cancelling twice yields ErrAlreadyInState
// and leaves the unit untouched.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string, actor models.Actor) (*models.Unit, error) {
	for attempt := 0; attempt < constants.MaxUpdateRetries; attempt++ {
		booking, err := s.authorizedBooking(ctx, bookingID, policy.CapCancelBooking, actor)
		if err != nil {
			return nil, err
		}
		if booking.Status == models.BookingStatusCancelled {
			return nil, utils.ErrAlreadyInState
		}

		_, unit, err := s.bookingRepo.CancelAtomic(ctx, booking.ID, booking.RowVersion, reason, actor.ID, time.Now().UTC())
		if errors.Is(err, utils.ErrRowVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return unit, nil
	}
	return nil, &utils.ConflictError{EntityID: bookingID, Detail: "too much contention cancelling booking"}
}

// DeleteBooking hard-removes a confirmed booking whose unit has not been
// sold, reverting the unit to available. Cancelled and completed bookings
// are immutable history and cannot be deleted.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID, actor models.Actor) (*models.Unit, error) {
	booking, err := s.authorizedBooking(ctx, bookingID, policy.CapDeleteBooking, actor)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, utils.ErrInvalidTransition
	}
	return s.bookingRepo.DeleteAtomic(ctx, booking.ID, actor.ID)
}

// GetBooking fetches a booking within the actor's tenant scope.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, actor models.Actor) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.ErrNotFound
	}
	tenant, err := projectTenant(ctx, s.projRepo, booking.ProjectID)
	if err != nil {
		return nil, err
	}
	if !actor.PlatformScoped() && actor.TenantID != tenant {
		return nil, utils.ErrTenantMismatch
	}
	return booking, nil
}

// GetBookingByReference resolves a booking by its human-readable code.
func (s *BookingService) GetBookingByReference(ctx context.Context, reference string, actor models.Actor) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.ErrNotFound
	}
	return s.GetBooking(ctx, booking.ID, actor)
}

// ListBookingsByUnit lists a unit's bookings, newest first.
func (s *BookingService) ListBookingsByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.Booking, error) {
	return s.bookingRepo.ListByUnitID(ctx, unitID)
}

func (s *BookingService) authorizedBooking(ctx context.Context, bookingID uuid.UUID, cap policy.Capability, actor models.Actor) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.ErrNotFound
	}
	tenant, err := projectTenant(ctx, s.projRepo, booking.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, cap, tenant); err != nil {
		return nil, err
	}
	return booking, nil
}
