package models

import (
	"time"

	"github.com/google/uuid"
)

type TransferStatusType string

const (
	TransferStatusPending   TransferStatusType = "pending"
	TransferStatusApproved  TransferStatusType = "approved"
	TransferStatusRejected  TransferStatusType = "rejected"
	TransferStatusCompleted TransferStatusType = "completed"
)

// Transfer reassigns an existing booking's customer through a
// pending -> approved -> completed workflow. Rejected and completed
// transfers are immutable; status never regresses.
type Transfer struct {
	Versioned

	ID             uuid.UUID          `json:"id"`
	UnitID         uuid.UUID          `json:"unit_id"`
	BookingID      uuid.UUID          `json:"booking_id"`
	FromCustomerID uuid.UUID          `json:"from_customer_id"`
	ToCustomerID   uuid.UUID          `json:"to_customer_id"`
	Status         TransferStatusType `json:"status"`
	Fee            float64            `json:"fee"`

	TransferDate *time.Time `json:"transfer_date,omitempty"`
	ApprovedByID *uuid.UUID `json:"approved_by_id,omitempty"`

	Remarks string `json:"remarks,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedByID uuid.UUID  `json:"created_by_id"`
	UpdatedByID *uuid.UUID `json:"updated_by_id,omitempty"`
}

func (t *Transfer) GetID() string {
	return t.ID.String()
}
