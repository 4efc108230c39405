package models

import (
	"time"

	"github.com/google/uuid"
)

type UnitStatusType string

const (
	UnitStatusAvailable UnitStatusType = "available"
	UnitStatusOnHold    UnitStatusType = "on_hold"
	UnitStatusBooked    UnitStatusType = "booked"
	UnitStatusSold      UnitStatusType = "sold"
	UnitStatusInactive  UnitStatusType = "inactive"
)

type UnitType string

const (
	UnitTypePlot       UnitType = "plot"
	UnitTypeFile       UnitType = "file"
	UnitTypeFlat       UnitType = "flat"
	UnitTypeVilla      UnitType = "villa"
	UnitTypeCommercial UnitType = "commercial"
)

type CategoryType string

const (
	CategoryResidential  CategoryType = "residential"
	CategoryCommercial   CategoryType = "commercial"
	CategoryAgricultural CategoryType = "agricultural"
)

// Unit is a sellable inventory item (plot, flat, villa, ...) tracked by the
// registry. Status is mutated only through the reservation, booking and
// transfer workflows, never by plain field updates.
//
// Invariant: HoldExpiresAt and HolderID are both nil whenever the status is
// available, sold or inactive. HolderID is set while on_hold or booked.
type Unit struct {
	Versioned

	ID           uuid.UUID      `json:"id"`
	ProjectID    uuid.UUID      `json:"project_id"`
	PhaseBlockID *uuid.UUID     `json:"phase_block_id,omitempty"`
	UnitNumber   string         `json:"unit_number"`
	UnitType     UnitType       `json:"unit_type"`
	Category     CategoryType   `json:"category,omitempty"`
	Size         float64        `json:"size,omitempty"`
	Price        float64        `json:"price"`
	Status       UnitStatusType `json:"status"`

	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
	HolderID      *uuid.UUID `json:"holder_id,omitempty"`

	InvestorLocked bool       `json:"investor_locked"`
	InvestorID     *uuid.UUID `json:"investor_id,omitempty"`

	Remarks string `json:"remarks,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedByID uuid.UUID  `json:"created_by_id"`
	UpdatedByID *uuid.UUID `json:"updated_by_id,omitempty"`
}

func (u *Unit) GetID() string {
	return u.ID.String()
}

// HoldExpired reports whether an active hold has lapsed at the given instant.
func (u *Unit) HoldExpired(now time.Time) bool {
	return u.Status == UnitStatusOnHold && u.HoldExpiresAt != nil && now.After(*u.HoldExpiresAt)
}
