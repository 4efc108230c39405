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

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	ListByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.Unit, error)

	UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error

	// Status transitions. Each runs in its own transaction with a row lock
	// and a row_version check; a stale version yields ErrRowVersionConflict
	// and an ineligible status yields ErrInvalidTransition.
	PlaceHoldAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, holderID uuid.UUID, expiresAt time.Time) (*models.Unit, error)
	ClearHoldAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error)
	ExtendHoldAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, newExpiry time.Time, actorID uuid.UUID) (*models.Unit, error)
	DeactivateAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error)
	ReactivateAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error)

	// ExpireHolds sweeps every unit whose hold lapsed before now back to
	// available in one statement, returning the affected unit ids.
	// Repeat calls are no-ops for already-swept units.
	ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	*BaseVersionedRepo[*models.Unit]
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	selectStmt := baseSelectUnit() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanUnit)
	return r
}

/* ---------- create / reads ---------- */

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (
			id, project_id, phase_block_id, unit_number, unit_type, category,
			size, price, status, hold_expires_at, holder_id,
			investor_locked, investor_id, remarks,
			created_at, updated_at, created_by_id, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, NOW(), NOW(), $15, 1)
	`, u.ID, u.ProjectID, u.PhaseBlockID, u.UnitNumber, u.UnitType, u.Category,
		u.Size, u.Price, u.Status, u.HoldExpiresAt, u.HolderID,
		u.InvestorLocked, u.InvestorID, u.Remarks, u.CreatedByID)
	return busyErr(err)
}

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *unitRepo) ListByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+" WHERE project_id=$1 ORDER BY unit_number", projectID)
	if err != nil {
		return nil, busyErr(err)
	}
	defer rows.Close()
	return scanUnits(rows)
}

/* ---------- non-status updates ---------- */

func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE units
		SET phase_block_id=$1, unit_number=$2, category=$3, size=$4, price=$5,
		    investor_locked=$6, investor_id=$7, remarks=$8, updated_by_id=$9,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$10 AND row_version=$11
	`, u.PhaseBlockID, u.UnitNumber, u.Category, u.Size, u.Price,
		u.InvestorLocked, u.InvestorID, u.Remarks, u.UpdatedByID,
		u.ID, expected)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

/* ---------- status transitions ---------- */

func (r *unitRepo) PlaceHoldAtomic(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	holderID uuid.UUID,
	expiresAt time.Time,
) (*models.Unit, error) {
	return r.transition(ctx, id, expectedVersion,
		[]models.UnitStatusType{models.UnitStatusAvailable}, `
		UPDATE units
		SET status='on_hold', holder_id=$1, hold_expires_at=$2,
		    updated_by_id=$1, row_version=row_version+1, updated_at=NOW()
		WHERE id=$3
	`, holderID, expiresAt, id)
}

func (r *unitRepo) ClearHoldAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error) {
	return r.transition(ctx, id, expectedVersion,
		[]models.UnitStatusType{models.UnitStatusOnHold}, `
		UPDATE units
		SET status='available', holder_id=NULL, hold_expires_at=NULL,
		    updated_by_id=$1, row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, actorID, id)
}

func (r *unitRepo) ExtendHoldAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, newExpiry time.Time, actorID uuid.UUID) (*models.Unit, error) {
	return r.transition(ctx, id, expectedVersion,
		[]models.UnitStatusType{models.UnitStatusOnHold}, `
		UPDATE units
		SET hold_expires_at=$1, updated_by_id=$2,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$3
	`, newExpiry, actorID, id)
}

func (r *unitRepo) DeactivateAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error) {
	return r.transition(ctx, id, expectedVersion,
		[]models.UnitStatusType{models.UnitStatusAvailable, models.UnitStatusBooked}, `
		UPDATE units
		SET status='inactive', holder_id=NULL, hold_expires_at=NULL,
		    updated_by_id=$1, row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, actorID, id)
}

func (r *unitRepo) ReactivateAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error) {
	return r.transition(ctx, id, expectedVersion,
		[]models.UnitStatusType{models.UnitStatusInactive}, `
		UPDATE units
		SET status='available', updated_by_id=$1,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, actorID, id)
}

// transition locks the unit row, verifies version and eligible statuses,
// then applies the batched update. All reads and writes share one tx.
func (r *unitRepo) transition(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	eligible []models.UnitStatusType,
	updateSQL string,
	args ...interface{},
) (unit *models.Unit, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, busyErr(err)
	}
	defer func() { err = finishTx(ctx, tx, err) }()

	row := tx.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1 FOR UPDATE", id)
	current, err := scanUnit(row)
	if err != nil {
		return nil, err
	}
	if current == nil {
		err = utils.ErrNotFound
		return nil, err
	}
	if current.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return nil, err
	}
	ok := false
	for _, s := range eligible {
		if current.Status == s {
			ok = true
			break
		}
	}
	if !ok {
		err = utils.ErrInvalidTransition
		return nil, err
	}

	if _, err = tx.Exec(ctx, updateSQL, args...); err != nil {
		return nil, busyErr(err)
	}

	newRow := tx.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1", id)
	unit, err = scanUnit(newRow)
	return unit, err
}

/* ---------- expiry sweep ---------- */

func (r *unitRepo) ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE units
		SET status='available', holder_id=NULL, hold_expires_at=NULL,
		    row_version=row_version+1, updated_at=NOW()
		WHERE status='on_hold' AND hold_expires_at < $1
		RETURNING id
	`, now)
	if err != nil {
		return nil, busyErr(err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

/* ---------- internals ---------- */

func baseSelectUnit() string {
	return `
		SELECT id, project_id, phase_block_id, unit_number, unit_type, category,
		size, price, status, hold_expires_at, holder_id,
		investor_locked, investor_id, remarks,
		created_at, updated_at, created_by_id, updated_by_id, row_version
		FROM units`
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	if err := row.Scan(
		&u.ID, &u.ProjectID, &u.PhaseBlockID, &u.UnitNumber, &u.UnitType, &u.Category,
		&u.Size, &u.Price, &u.Status, &u.HoldExpiresAt, &u.HolderID,
		&u.InvestorLocked, &u.InvestorID, &u.Remarks,
		&u.CreatedAt, &u.UpdatedAt, &u.CreatedByID, &u.UpdatedByID, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, busyErr(err)
	}
	return &u, nil
}

func scanUnits(rows pgx.Rows) ([]*models.Unit, error) {
	var out []*models.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
