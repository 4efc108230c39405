package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/utils"
)

// Fixed ids so development environments converge on the same fixtures.
const (
	SeedTenantID  = "aaaaaaaa-aaaa-4aaa-aaaa-aaaaaaaaaaa1"
	SeedProjectID = "bbbbbbbb-bbbb-4bbb-bbbb-bbbbbbbbbbb1"
	SeedAdminID   = "cccccccc-cccc-4ccc-cccc-ccccccccccc1"

	// SentinelUnitID marks a completed seed run.
	SentinelUnitID = "dddddddd-dddd-4ddd-dddd-ddddddddddd1"
)

// SeedDevData loads a tenant, a project and a handful of available units
// for local development. Idempotent: a second run finds the sentinel unit
// and does nothing.
func SeedDevData(
	ctx context.Context,
	tenantRepo repositories.TenantRepository,
	projRepo repositories.ProjectRepository,
	unitRepo repositories.UnitRepository,
) error {
	sentinelID := uuid.MustParse(SentinelUnitID)
	if existing, err := unitRepo.GetByID(ctx, sentinelID); err != nil {
		return fmt.Errorf("check sentinel unit: %w", err)
	} else if existing != nil {
		utils.Logger.Info("Seed data already present; skipping seeding.")
		return nil
	}

	tenantID := uuid.MustParse(SeedTenantID)
	projectID := uuid.MustParse(SeedProjectID)
	adminID := uuid.MustParse(SeedAdminID)

	if existing, err := tenantRepo.GetByID(ctx, tenantID); err != nil {
		return fmt.Errorf("check seed tenant: %w", err)
	} else if existing == nil {
		if err := tenantRepo.Create(ctx, &models.Tenant{
			ID:          tenantID,
			Name:        "Dev Builder Co",
			MaxProjects: 10,
		}); err != nil {
			return fmt.Errorf("seed tenant: %w", err)
		}
	}

	if existing, err := projRepo.GetByID(ctx, projectID); err != nil {
		return fmt.Errorf("check seed project: %w", err)
	} else if existing == nil {
		if err := projRepo.CreateWithQuota(ctx, &models.Project{
			ID:          projectID,
			TenantID:    tenantID,
			Name:        "Dev Gardens Phase I",
			Status:      models.ProjectStatusActive,
			CreatedByID: adminID,
		}, 10); err != nil {
			return fmt.Errorf("seed project: %w", err)
		}
	}

	units := []*models.Unit{
		{
			ID:          sentinelID,
			ProjectID:   projectID,
			UnitNumber:  "A-101",
			UnitType:    models.UnitTypeFlat,
			Category:    models.CategoryResidential,
			Size:        1250,
			Price:       1_000_000,
			Status:      models.UnitStatusAvailable,
			CreatedByID: adminID,
		},
		{
			ID:          uuid.New(),
			ProjectID:   projectID,
			UnitNumber:  "A-102",
			UnitType:    models.UnitTypeFlat,
			Category:    models.CategoryResidential,
			Size:        1250,
			Price:       1_050_000,
			Status:      models.UnitStatusAvailable,
			CreatedByID: adminID,
		},
		{
			ID:          uuid.New(),
			ProjectID:   projectID,
			UnitNumber:  "V-01",
			UnitType:    models.UnitTypeVilla,
			Category:    models.CategoryResidential,
			Size:        4200,
			Price:       5_500_000,
			Status:      models.UnitStatusAvailable,
			CreatedByID: adminID,
		},
	}
	for _, u := range units {
		if err := unitRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("seed unit %s: %w", u.UnitNumber, err)
		}
	}

	utils.Logger.Infof("Seeded %d dev units under project %s", len(units), projectID)
	return nil
}
