package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/tooba16/real-states/internal/models"
)

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepository(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tenants (id, name, max_projects, created_at, updated_at)
		VALUES ($1,$2,$3, NOW(), NOW())
	`, t.ID, t.Name, t.MaxProjects)
	return busyErr(err)
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, max_projects, created_at, updated_at FROM tenants WHERE id=$1
	`, id)

	var t models.Tenant
	if err := row.Scan(&t.ID, &t.Name, &t.MaxProjects, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, busyErr(err)
	}
	return &t, nil
}
