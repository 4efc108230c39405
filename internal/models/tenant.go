package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the owning builder organization. MaxProjects caps how many
// active projects the tenant may run concurrently.
type Tenant struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MaxProjects int       `json:"max_projects"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
