package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatusType string

const (
	BookingStatusConfirmed BookingStatusType = "confirmed"
	BookingStatusCancelled BookingStatusType = "cancelled"
	BookingStatusCompleted BookingStatusType = "completed"
)

type BookingType string

const (
	BookingTypeHold    BookingType = "hold"
	BookingTypeBooking BookingType = "booking"
	BookingTypeSale    BookingType = "sale"
)

// Booking is a confirmed commitment of a unit to a customer.
//
// Invariant: for any unit, at most one booking with status != cancelled
// exists at a time.
type Booking struct {
	Versioned

	ID         uuid.UUID         `json:"id"`
	UnitID     uuid.UUID         `json:"unit_id"`
	ProjectID  uuid.UUID         `json:"project_id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	Amount     float64           `json:"amount"`
	Status     BookingStatusType `json:"status"`
	Type       BookingType       `json:"type"`
	Reference  string            `json:"reference"`
	BookedAt   time.Time         `json:"booked_at"`

	CancelledByID      *uuid.UUID `json:"cancelled_by_id,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	Remarks string `json:"remarks,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedByID uuid.UUID  `json:"created_by_id"`
	UpdatedByID *uuid.UUID `json:"updated_by_id,omitempty"`
}

func (b *Booking) GetID() string {
	return b.ID.String()
}
