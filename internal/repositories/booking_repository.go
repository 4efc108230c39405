package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/utils"
)

/* ───────────── public interface ───────────── */

type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetByReference(ctx context.Context, reference string) (*models.Booking, error)
	ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Booking, error)
	CountActiveByUnit(ctx context.Context, unitID uuid.UUID) (int, error)

	// CreateForUnit inserts the booking and moves its unit to booked in one
	// transaction. When the unit is on hold and the hold already lapsed, the
	// unit is reverted to available inside the same transaction and
	// ErrHoldExpired is returned; the booking row is not written.
	CreateForUnit(ctx context.Context, b *models.Booking, expectedUnitVersion int64, now time.Time) (*models.Booking, error)

	// CancelAtomic marks the booking cancelled and reverts the unit to
	// available in one transaction. Returns ErrAlreadyInState when the
	// booking is already cancelled.
	CancelAtomic(ctx context.Context, bookingID uuid.UUID, expectedVersion int64, reason string, actorID uuid.UUID, now time.Time) (*models.Booking, *models.Unit, error)

	// DeleteAtomic hard-removes a confirmed booking whose unit has not been
	// sold, reverting the unit to available in the same transaction.
	DeleteAtomic(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (*models.Unit, error)
}

/* ───────────── implementation ───────────── */

type bookingRepo struct {
	*BaseVersionedRepo[*models.Booking]
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	r := &bookingRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectBooking()+" WHERE id=$1", scanBooking)
	return r
}

// Helper to check for unique violation error (PostgreSQL specific code)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

/* ---------- reads ---------- */

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *bookingRepo) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	row := r.db.QueryRow(ctx, baseSelectBooking()+" WHERE reference=$1", reference)
	return scanBooking(row)
}

func (r *bookingRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, baseSelectBooking()+" WHERE unit_id=$1 ORDER BY booked_at DESC", unitID)
	if err != nil {
		return nil, busyErr(err)
	}
	defer rows.Close()

	var out []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *bookingRepo) CountActiveByUnit(ctx context.Context, unitID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings WHERE unit_id=$1 AND status <> 'cancelled'
	`, unitID).Scan(&n)
	return n, busyErr(err)
}

/* ---------- booking creation ---------- */

func (r *bookingRepo) CreateForUnit(
	ctx context.Context,
	b *models.Booking,
	expectedUnitVersion int64,
	now time.Time,
) (*models.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, busyErr(err)
	}

	row := tx.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1 FOR UPDATE", b.UnitID)
	unit, err := scanUnit(row)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if unit == nil {
		_ = tx.Rollback(ctx)
		return nil, utils.ErrNotFound
	}
	if unit.RowVersion != expectedUnitVersion {
		_ = tx.Rollback(ctx)
		return nil, utils.ErrRowVersionConflict
	}
	if unit.Status != models.UnitStatusAvailable && unit.Status != models.UnitStatusOnHold {
		_ = tx.Rollback(ctx)
		return nil, utils.ErrInvalidTransition
	}

	// A stale hold must never survive a failed conversion: revert the unit
	// in this same transaction, commit, and report the expiry.
	if unit.HoldExpired(now) {
		if _, err = tx.Exec(ctx, `
			UPDATE units
			SET status='available', holder_id=NULL, hold_expires_at=NULL,
			    row_version=row_version+1, updated_at=NOW()
			WHERE id=$1
		`, unit.ID); err != nil {
			_ = tx.Rollback(ctx)
			return nil, busyErr(err)
		}
		if err = tx.Commit(ctx); err != nil {
			return nil, busyErr(err)
		}
		return nil, utils.ErrHoldExpired
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO bookings (
			id, unit_id, project_id, customer_id, amount, status, type,
			reference, booked_at, remarks,
			created_at, updated_at, created_by_id, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW(), NOW(), $11, 1)
	`, b.ID, b.UnitID, b.ProjectID, b.CustomerID, b.Amount, b.Status, b.Type,
		b.Reference, b.BookedAt, b.Remarks, b.CreatedByID); err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			return nil, &utils.ConflictError{EntityID: b.UnitID, Detail: "duplicate booking or reference"}
		}
		return nil, busyErr(err)
	}

	if _, err = tx.Exec(ctx, `
		UPDATE units
		SET status='booked', holder_id=$1, hold_expires_at=NULL,
		    updated_by_id=$1, row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, b.CreatedByID, b.UnitID); err != nil {
		_ = tx.Rollback(ctx)
		return nil, busyErr(err)
	}

	created, err := scanBooking(tx.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1", b.ID))
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, busyErr(err)
	}
	return created, nil
}

/* ---------- cancellation / deletion ---------- */

func (r *bookingRepo) CancelAtomic(
	ctx context.Context,
	bookingID uuid.UUID,
	expectedVersion int64,
	reason string,
	actorID uuid.UUID,
	now time.Time,
) (booking *models.Booking, unit *models.Unit, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, busyErr(err)
	}
	defer func() { err = finishTx(ctx, tx, err) }()

	current, err := scanBooking(tx.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1 FOR UPDATE", bookingID))
	if err != nil {
		return nil, nil, err
	}
	if current == nil {
		err = utils.ErrNotFound
		return nil, nil, err
	}
	if current.Status == models.BookingStatusCancelled {
		err = utils.ErrAlreadyInState
		return nil, nil, err
	}
	if current.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return nil, nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE bookings
		SET status='cancelled', cancellation_reason=$1, cancelled_at=$2,
		    cancelled_by_id=$3, updated_by_id=$3,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$4
	`, reason, now, actorID, bookingID); err != nil {
		return nil, nil, busyErr(err)
	}

	if _, err = tx.Exec(ctx, `
		UPDATE units
		SET status='available', holder_id=NULL, hold_expires_at=NULL,
		    updated_by_id=$1, row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, actorID, current.UnitID); err != nil {
		return nil, nil, busyErr(err)
	}

	booking, err = scanBooking(tx.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1", bookingID))
	if err != nil {
		return nil, nil, err
	}
	unit, err = scanUnit(tx.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1", current.UnitID))
	return booking, unit, err
}

func (r *bookingRepo) DeleteAtomic(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (unit *models.Unit, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, busyErr(err)
	}
	defer func() { err = finishTx(ctx, tx, err) }()

	current, err := scanBooking(tx.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1 FOR UPDATE", bookingID))
	if err != nil {
		return nil, err
	}
	if current == nil {
		err = utils.ErrNotFound
		return nil, err
	}
	if current.Status != models.BookingStatusConfirmed {
		err = utils.ErrInvalidTransition
		return nil, err
	}

	lockedUnit, err := scanUnit(tx.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1 FOR UPDATE", current.UnitID))
	if err != nil {
		return nil, err
	}
	if lockedUnit != nil && lockedUnit.Status == models.UnitStatusSold {
		err = utils.ErrInvalidTransition
		return nil, err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, bookingID); err != nil {
		return nil, busyErr(err)
	}

	if lockedUnit != nil {
		if _, err = tx.Exec(ctx, `
			UPDATE units
			SET status='available', holder_id=NULL, hold_expires_at=NULL,
			    updated_by_id=$1, row_version=row_version+1, updated_at=NOW()
			WHERE id=$2
		`, actorID, current.UnitID); err != nil {
			return nil, busyErr(err)
		}
		unit, err = scanUnit(tx.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1", current.UnitID))
	}
	return unit, err
}

/* ---------- internals ---------- */

func baseSelectBooking() string {
	return `
		SELECT id, unit_id, project_id, customer_id, amount, status, type,
		reference, booked_at, cancelled_by_id, cancellation_reason, cancelled_at,
		remarks, created_at, updated_at, created_by_id, updated_by_id, row_version
		FROM bookings`
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	if err := row.Scan(
		&b.ID, &b.UnitID, &b.ProjectID, &b.CustomerID, &b.Amount, &b.Status, &b.Type,
		&b.Reference, &b.BookedAt, &b.CancelledByID, &b.CancellationReason, &b.CancelledAt,
		&b.Remarks, &b.CreatedAt, &b.UpdatedAt, &b.CreatedByID, &b.UpdatedByID, &b.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, busyErr(err)
	}
	return &b, nil
}
