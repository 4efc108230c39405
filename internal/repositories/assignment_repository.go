package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/utils"
)

/* ───────────── public interface ───────────── */

type AssignmentRepository interface {
	Create(ctx context.Context, a *models.InvestorAssignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InvestorAssignment, error)
	ListActiveByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.InvestorAssignment, error)
	Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error

	// Consent records
	CreateConsent(ctx context.Context, c *models.ConsentRecord) error
	GetActiveConsent(ctx context.Context, assignmentID uuid.UUID) (*models.ConsentRecord, error)
	RevokeConsent(ctx context.Context, recordID uuid.UUID, now time.Time) error
}

/* ───────────── implementation ───────────── */

type assignmentRepo struct {
	db DB
}

func NewAssignmentRepository(db DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *models.InvestorAssignment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO investor_assignments (
			id, investor_id, unit_id, percentage_share, consent_required, status,
			created_at, updated_at, created_by_id, row_version
		) VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW(), $7, 1)
	`, a.ID, a.InvestorID, a.UnitID, a.PercentageShare, a.ConsentRequired, a.Status, a.CreatedByID)
	return busyErr(err)
}

func (r *assignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InvestorAssignment, error) {
	row := r.db.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", id)
	return scanAssignment(row)
}

func (r *assignmentRepo) ListActiveByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.InvestorAssignment, error) {
	rows, err := r.db.Query(ctx, baseSelectAssignment()+" WHERE unit_id=$1 AND status='active'", unitID)
	if err != nil {
		return nil, busyErr(err)
	}
	defer rows.Close()

	var out []*models.InvestorAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *assignmentRepo) Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE investor_assignments
		SET status='inactive', updated_by_id=$1,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, actorID, id)
	if err != nil {
		return busyErr(err)
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

/* ---------- consent records ---------- */

func (r *assignmentRepo) CreateConsent(ctx context.Context, c *models.ConsentRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO consent_records (id, assignment_id, granted_by_id, granted_at)
		VALUES ($1,$2,$3,$4)
	`, c.ID, c.AssignmentID, c.GrantedByID, c.GrantedAt)
	return busyErr(err)
}

func (r *assignmentRepo) GetActiveConsent(ctx context.Context, assignmentID uuid.UUID) (*models.ConsentRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, assignment_id, granted_by_id, granted_at, revoked_at
		FROM consent_records
		WHERE assignment_id=$1 AND revoked_at IS NULL
		ORDER BY granted_at DESC LIMIT 1
	`, assignmentID)

	var c models.ConsentRecord
	if err := row.Scan(&c.ID, &c.AssignmentID, &c.GrantedByID, &c.GrantedAt, &c.RevokedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, busyErr(err)
	}
	return &c, nil
}

func (r *assignmentRepo) RevokeConsent(ctx context.Context, recordID uuid.UUID, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE consent_records SET revoked_at=$1 WHERE id=$2 AND revoked_at IS NULL
	`, now, recordID)
	if err != nil {
		return busyErr(err)
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectAssignment() string {
	return `
		SELECT id, investor_id, unit_id, percentage_share, consent_required, status,
		created_at, updated_at, created_by_id, updated_by_id, row_version
		FROM investor_assignments`
}

func scanAssignment(row pgx.Row) (*models.InvestorAssignment, error) {
	var a models.InvestorAssignment
	if err := row.Scan(
		&a.ID, &a.InvestorID, &a.UnitID, &a.PercentageShare, &a.ConsentRequired, &a.Status,
		&a.CreatedAt, &a.UpdatedAt, &a.CreatedByID, &a.UpdatedByID, &a.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, busyErr(err)
	}
	return &a, nil
}
