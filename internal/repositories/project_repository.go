package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/utils"
)

/* ───────────── public interface ───────────── */

type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)

	// CreateWithQuota inserts the project only if the tenant's active-project
	// count is still under maxProjects. The count and the insert share one
	// transaction holding the tenant row lock, so two concurrent creations
	// cannot both observe a stale under-quota count.
	CreateWithQuota(ctx context.Context, p *models.Project, maxProjects int) error

	// Reference checks for unit creation.
	PhaseBlockProject(ctx context.Context, phaseBlockID uuid.UUID) (uuid.UUID, error)
	InvestorTenant(ctx context.Context, investorID uuid.UUID) (uuid.UUID, error)
}

type projectRepo struct {
	db DB
}

func NewProjectRepository(db DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := r.db.QueryRow(ctx, baseSelectProject()+" WHERE id=$1", id)
	return scanProject(row)
}

func (r *projectRepo) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects WHERE tenant_id=$1 AND status <> 'cancelled'
	`, tenantID).Scan(&n)
	return n, busyErr(err)
}

func (r *projectRepo) CreateWithQuota(ctx context.Context, p *models.Project, maxProjects int) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return busyErr(err)
	}
	defer func() { err = finishTx(ctx, tx, err) }()

	// Serialize concurrent creations for the same tenant on the tenant row.
	var tenantID uuid.UUID
	if err = tx.QueryRow(ctx, `SELECT id FROM tenants WHERE id=$1 FOR UPDATE`, p.TenantID).Scan(&tenantID); err != nil {
		if err == pgx.ErrNoRows {
			err = utils.ErrNotFound
		}
		return busyErr(err)
	}

	var active int
	if err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects WHERE tenant_id=$1 AND status <> 'cancelled'
	`, p.TenantID).Scan(&active); err != nil {
		return busyErr(err)
	}
	if active >= maxProjects {
		err = utils.ErrQuotaExceeded
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO projects (id, tenant_id, name, status, created_at, updated_at, created_by_id, row_version)
		VALUES ($1,$2,$3,$4, NOW(), NOW(), $5, 1)
	`, p.ID, p.TenantID, p.Name, p.Status, p.CreatedByID); err != nil {
		return busyErr(err)
	}
	return nil
}

/* ---------- reference checks ---------- */

func (r *projectRepo) PhaseBlockProject(ctx context.Context, phaseBlockID uuid.UUID) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT project_id FROM phase_blocks WHERE id=$1`, phaseBlockID).Scan(&projectID)
	if err == pgx.ErrNoRows {
		return uuid.Nil, utils.ErrNotFound
	}
	return projectID, busyErr(err)
}

func (r *projectRepo) InvestorTenant(ctx context.Context, investorID uuid.UUID) (uuid.UUID, error) {
	var tenantID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT tenant_id FROM investors WHERE id=$1`, investorID).Scan(&tenantID)
	if err == pgx.ErrNoRows {
		return uuid.Nil, utils.ErrNotFound
	}
	return tenantID, busyErr(err)
}

/* ---------- internals ---------- */

func baseSelectProject() string {
	return `
		SELECT id, tenant_id, name, status, created_at, updated_at, created_by_id, row_version
		FROM projects`
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedByID, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, busyErr(err)
	}
	return &p, nil
}
