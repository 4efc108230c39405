package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/constants"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/utils"
)

// projectTenant resolves the tenant owning a project, for scope checks.
func projectTenant(ctx context.Context, projects repositories.ProjectRepository, projectID uuid.UUID) (uuid.UUID, error) {
	p, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return uuid.Nil, err
	}
	if p == nil {
		return uuid.Nil, utils.ErrNotFound
	}
	return p.TenantID, nil
}

// newBookingReference builds a human-readable, practically unique code,
// e.g. BKG-20260824-3F9A11BC. Uniqueness is still enforced by the DB.
func newBookingReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", constants.BookingReferencePrefix, now.Format("20060102"), suffix)
}
