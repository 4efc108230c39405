package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatusType string

const (
	ProjectStatusActive    ProjectStatusType = "active"
	ProjectStatusCompleted ProjectStatusType = "completed"
	ProjectStatusCancelled ProjectStatusType = "cancelled"
)

// Project is the minimal slice of a development project the engine needs:
// tenant scoping for unit and booking operations, and the active-project
// count backing the tenant quota guard. Full project CRUD lives outside
// the engine.
type Project struct {
	Versioned

	ID       uuid.UUID         `json:"id"`
	TenantID uuid.UUID         `json:"tenant_id"`
	Name     string            `json:"name"`
	Status   ProjectStatusType `json:"status"`

	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedByID uuid.UUID `json:"created_by_id"`
}

func (p *Project) GetID() string {
	return p.ID.String()
}
