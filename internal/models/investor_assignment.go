package models

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatusType string

const (
	AssignmentStatusActive   AssignmentStatusType = "active"
	AssignmentStatusInactive AssignmentStatusType = "inactive"
)

// InvestorAssignment ties an investor to a unit with a percentage share.
// When ConsentRequired is set, the unit cannot change allocation state
// while investor-locked until a matching unrevoked ConsentRecord exists.
type InvestorAssignment struct {
	Versioned

	ID              uuid.UUID            `json:"id"`
	InvestorID      uuid.UUID            `json:"investor_id"`
	UnitID          uuid.UUID            `json:"unit_id"`
	PercentageShare float64              `json:"percentage_share"`
	ConsentRequired bool                 `json:"consent_required"`
	Status          AssignmentStatusType `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedByID uuid.UUID  `json:"created_by_id"`
	UpdatedByID *uuid.UUID `json:"updated_by_id,omitempty"`
}

func (a *InvestorAssignment) GetID() string {
	return a.ID.String()
}
