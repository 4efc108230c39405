package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/config"
	"github.com/tooba16/real-states/internal/dtos"
	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/policy"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/utils"
)

// TransferService reassigns an existing booking's customer through the
// pending -> approved -> completed workflow. The booking's customer moves
// at approval; the unit advances to sold at completion.
type TransferService struct {
	cfg          *config.Config
	unitRepo     repositories.UnitRepository
	bookingRepo  repositories.BookingRepository
	transferRepo repositories.TransferRepository
	projRepo     repositories.ProjectRepository
}

func NewTransferService(
	cfg *config.Config,
	unitRepo repositories.UnitRepository,
	bookingRepo repositories.BookingRepository,
	transferRepo repositories.TransferRepository,
	projRepo repositories.ProjectRepository,
) *TransferService {
	return &TransferService{
		cfg:          cfg,
		unitRepo:     unitRepo,
		bookingRepo:  bookingRepo,
		transferRepo: transferRepo,
		projRepo:     projRepo,
	}
}

// CreateTransfer opens a pending transfer for a booked or sold unit.
// The fee defaults to the configured percentage of the unit price.
func (s *TransferService) CreateTransfer(ctx context.Context, in dtos.CreateTransferInput, actor models.Actor) (*models.Transfer, error) {
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
	if err := policy.Authorize(actor, policy.CapCreateTransfer, tenant); err != nil {
		return nil, err
	}

	if unit.Status != models.UnitStatusBooked && unit.Status != models.UnitStatusSold {
		return nil, utils.ErrInvalidTransition
	}

	booking, err := s.bookingRepo.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.ErrNotFound
	}
	if booking.UnitID != in.UnitID {
		return nil, utils.ErrInvalidReference
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, utils.ErrInvalidTransition
	}

	fee := unit.Price * s.cfg.TransferFeePercent / 100
	if in.Fee != nil {
		fee = *in.Fee
	}

	t := &models.Transfer{
		ID:             uuid.New(),
		UnitID:         in.UnitID,
		BookingID:      in.BookingID,
		FromCustomerID: in.FromCustomerID,
		ToCustomerID:   in.ToCustomerID,
		Status:         models.TransferStatusPending,
		Fee:            fee,
		Remarks:        in.Remarks,
		CreatedByID:    actor.ID,
	}
	if err := s.transferRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ApproveTransfer moves a pending transfer to approved and reassigns the
// booking's customer in the same atomic step.
func (s *TransferService) ApproveTransfer(ctx context.Context, transferID uuid.UUID, actor models.Actor) (*models.Transfer, error) {
	t, err := s.authorizedTransfer(ctx, transferID, policy.CapApproveTransfer, actor)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TransferStatusPending {
		return nil, utils.ErrInvalidTransition
	}

	approved, err := s.transferRepo.ApproveAtomic(ctx, t.ID, t.RowVersion, actor.ID)
	if errors.Is(err, utils.ErrRowVersionConflict) {
		return nil, &utils.ConflictError{EntityID: t.ID, Detail: "transfer changed concurrently"}
	}
	return approved, err
}

// CompleteTransfer finalizes an approved transfer, stamping the transfer
// date and advancing a booked unit to sold.
func (s *TransferService) CompleteTransfer(ctx context.Context, transferID uuid.UUID, actor models.Actor) (*models.Transfer, error) {
	t, err := s.authorizedTransfer(ctx, transferID, policy.CapApproveTransfer, actor)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TransferStatusApproved {
		return nil, utils.ErrInvalidTransition
	}

	completed, err := s.transferRepo.CompleteAtomic(ctx, t.ID, t.RowVersion, actor.ID, time.Now().UTC())
	if errors.Is(err, utils.ErrRowVersionConflict) {
		return nil, &utils.ConflictError{EntityID: t.ID, Detail: "transfer changed concurrently"}
	}
	return completed, err
}

// RejectTransfer declines a pending transfer. Terminal.
func (s *TransferService) RejectTransfer(ctx context.Context, transferID uuid.UUID, actor models.Actor) (*models.Transfer, error) {
	t, err := s.authorizedTransfer(ctx, transferID, policy.CapApproveTransfer, actor)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TransferStatusPending {
		return nil, utils.ErrInvalidTransition
	}

	rejected, err := s.transferRepo.RejectAtomic(ctx, t.ID, t.RowVersion, actor.ID)
	if errors.Is(err, utils.ErrRowVersionConflict) {
		return nil, &utils.ConflictError{EntityID: t.ID, Detail: "transfer changed concurrently"}
	}
	return rejected, err
}

// UpdateTransfer edits fee, target customer or remarks while pending.
func (s *TransferService) UpdateTransfer(ctx context.Context, transferID uuid.UUID, in dtos.UpdateTransferInput, actor models.Actor) (*models.Transfer, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}
	t, err := s.authorizedTransfer(ctx, transferID, policy.CapUpdateTransfer, actor)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TransferStatusPending {
		return nil, utils.ErrInvalidTransition
	}

	err = s.transferRepo.UpdateWithRetry(ctx, t.ID, func(cur *models.Transfer) error {
		if cur.Status != models.TransferStatusPending {
			return utils.ErrInvalidTransition
		}
		if in.ToCustomerID != nil {
			cur.ToCustomerID = *in.ToCustomerID
		}
		if in.Fee != nil {
			cur.Fee = *in.Fee
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
	return s.transferRepo.GetByID(ctx, t.ID)
}

// DeleteTransfer removes a transfer while it is still pending.
func (s *TransferService) DeleteTransfer(ctx context.Context, transferID uuid.UUID, actor models.Actor) error {
	t, err := s.authorizedTransfer(ctx, transferID, policy.CapUpdateTransfer, actor)
	if err != nil {
		return err
	}
	if t.Status != models.TransferStatusPending {
		return utils.ErrInvalidTransition
	}
	return s.transferRepo.Delete(ctx, t.ID)
}

// GetTransfer fetches a transfer within the actor's tenant scope.
func (s *TransferService) GetTransfer(ctx context.Context, transferID uuid.UUID, actor models.Actor) (*models.Transfer, error) {
	t, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, utils.ErrNotFound
	}
	tenant, err := s.transferTenant(ctx, t)
	if err != nil {
		return nil, err
	}
	if !actor.PlatformScoped() && actor.TenantID != tenant {
		return nil, utils.ErrTenantMismatch
	}
	return t, nil
}

// ListTransfersByUnit lists a unit's transfers, newest first.
func (s *TransferService) ListTransfersByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.Transfer, error) {
	return s.transferRepo.ListByUnitID(ctx, unitID)
}

func (s *TransferService) authorizedTransfer(ctx context.Context, transferID uuid.UUID, cap policy.Capability, actor models.Actor) (*models.Transfer, error) {
	t, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, utils.ErrNotFound
	}
	tenant, err := s.transferTenant(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, cap, tenant); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TransferService) transferTenant(ctx context.Context, t *models.Transfer) (uuid.UUID, error) {
	booking, err := s.bookingRepo.GetByID(ctx, t.BookingID)
	if err != nil {
		return uuid.Nil, err
	}
	if booking == nil {
		return uuid.Nil, utils.ErrNotFound
	}
	return projectTenant(ctx, s.projRepo, booking.ProjectID)
}
