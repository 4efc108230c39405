package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/utils"
)

/* ───────────── public interface ───────────── */

type TransferRepository interface {
	Create(ctx context.Context, t *models.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Transfer, error)

	UpdateIfVersion(ctx context.Context, t *models.Transfer, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Transfer) error) error

	// ApproveAtomic moves a pending transfer to approved and reassigns the
	// booking's customer to the transfer target in the same transaction.
	ApproveAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, approverID uuid.UUID) (*models.Transfer, error)

	// CompleteAtomic moves an approved transfer to completed, stamps the
	// transfer date, and advances a booked unit to sold.
	CompleteAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID, now time.Time) (*models.Transfer, error)

	// RejectAtomic moves a pending transfer to rejected (terminal).
	RejectAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Transfer, error)

	// Delete removes a transfer only while pending.
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type transferRepo struct {
	*BaseVersionedRepo[*models.Transfer]
	db DB
}

func NewTransferRepository(db DB) TransferRepository {
	r := &transferRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectTransfer()+" WHERE id=$1", scanTransfer)
	return r
}

/* ---------- create / reads ---------- */

func (r *transferRepo) Create(ctx context.Context, t *models.Transfer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO transfers (
			id, unit_id, booking_id, from_customer_id, to_customer_id,
			status, fee, transfer_date, remarks,
			created_at, updated_at, created_by_id, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW(), $10, 1)
	`, t.ID, t.UnitID, t.BookingID, t.FromCustomerID, t.ToCustomerID,
		t.Status, t.Fee, t.TransferDate, t.Remarks, t.CreatedByID)
	return busyErr(err)
}

func (r *transferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *transferRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Transfer, error) {
	rows, err := r.db.Query(ctx, baseSelectTransfer()+" WHERE unit_id=$1 ORDER BY created_at DESC", unitID)
	if err != nil {
		return nil, busyErr(err)
	}
	defer rows.Close()

	var out []*models.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

/* ---------- pending-only field updates ---------- */

func (r *transferRepo) UpdateIfVersion(ctx context.Context, t *models.Transfer, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE transfers
		SET to_customer_id=$1, fee=$2, remarks=$3, updated_by_id=$4,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$5 AND row_version=$6 AND status='pending'
	`, t.ToCustomerID, t.Fee, t.Remarks, t.UpdatedByID, t.ID, expected)
}

func (r *transferRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Transfer) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

/* ---------- workflow transitions ---------- */

func (r *transferRepo) ApproveAtomic(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	approverID uuid.UUID,
) (transfer *models.Transfer, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, busyErr(err)
	}
	defer func() { err = finishTx(ctx, tx, err) }()

	current, err := r.lockTransfer(ctx, tx, id, models.TransferStatusPending, expectedVersion)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE transfers
		SET status='approved', approved_by_id=$1, updated_by_id=$1,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, approverID, id); err != nil {
		return nil, busyErr(err)
	}

	// Ownership of the commercial relationship moves at approval time.
	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET customer_id=$1, updated_by_id=$2,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$3
	`, current.ToCustomerID, approverID, current.BookingID)
	if err != nil {
		return nil, busyErr(err)
	}
	if tag.RowsAffected() == 0 {
		err = utils.ErrNotFound
		return nil, err
	}

	transfer, err = scanTransfer(tx.QueryRow(ctx, baseSelectTransfer()+" WHERE id=$1", id))
	return transfer, err
}

func (r *transferRepo) CompleteAtomic(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	actorID uuid.UUID,
	now time.Time,
) (transfer *models.Transfer, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, busyErr(err)
	}
	defer func() { err = finishTx(ctx, tx, err) }()

	current, err := r.lockTransfer(ctx, tx, id, models.TransferStatusApproved, expectedVersion)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE transfers
		SET status='completed', transfer_date=$1, updated_by_id=$2,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$3
	`, now, actorID, id); err != nil {
		return nil, busyErr(err)
	}

	unit, err := scanUnit(tx.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1 FOR UPDATE", current.UnitID))
	if err != nil {
		return nil, err
	}
	if unit != nil && unit.Status == models.UnitStatusBooked {
		if _, err = tx.Exec(ctx, `
			UPDATE units
			SET status='sold', holder_id=NULL, hold_expires_at=NULL,
			    updated_by_id=$1, row_version=row_version+1, updated_at=NOW()
			WHERE id=$2
		`, actorID, current.UnitID); err != nil {
			return nil, busyErr(err)
		}
	}

	transfer, err = scanTransfer(tx.QueryRow(ctx, baseSelectTransfer()+" WHERE id=$1", id))
	return transfer, err
}

func (r *transferRepo) RejectAtomic(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	actorID uuid.UUID,
) (transfer *models.Transfer, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, busyErr(err)
	}
	defer func() { err = finishTx(ctx, tx, err) }()

	if _, err = r.lockTransfer(ctx, tx, id, models.TransferStatusPending, expectedVersion); err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE transfers
		SET status='rejected', updated_by_id=$1,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, actorID, id); err != nil {
		return nil, busyErr(err)
	}

	transfer, err = scanTransfer(tx.QueryRow(ctx, baseSelectTransfer()+" WHERE id=$1", id))
	return transfer, err
}

func (r *transferRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM transfers WHERE id=$1 AND status='pending'`, id)
	if err != nil {
		return busyErr(err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return utils.ErrNotFound
		}
		return utils.ErrInvalidTransition
	}
	return nil
}

// lockTransfer locks the transfer row and verifies status and version.
func (r *transferRepo) lockTransfer(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	required models.TransferStatusType,
	expectedVersion int64,
) (*models.Transfer, error) {
	current, err := scanTransfer(tx.QueryRow(ctx, baseSelectTransfer()+" WHERE id=$1 FOR UPDATE", id))
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, utils.ErrNotFound
	}
	if current.Status != required {
		return nil, utils.ErrInvalidTransition
	}
	if current.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	return current, nil
}

/* ---------- internals ---------- */

func baseSelectTransfer() string {
	return `
		SELECT id, unit_id, booking_id, from_customer_id, to_customer_id,
		status, fee, transfer_date, approved_by_id, remarks,
		created_at, updated_at, created_by_id, updated_by_id, row_version
		FROM transfers`
}

func scanTransfer(row pgx.Row) (*models.Transfer, error) {
	var t models.Transfer
	if err := row.Scan(
		&t.ID, &t.UnitID, &t.BookingID, &t.FromCustomerID, &t.ToCustomerID,
		&t.Status, &t.Fee, &t.TransferDate, &t.ApprovedByID, &t.Remarks,
		&t.CreatedAt, &t.UpdatedAt, &t.CreatedByID, &t.UpdatedByID, &t.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, busyErr(err)
	}
	return &t, nil
}
