package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/tooba16/real-states/internal/models"
)

type CreateUnitInput struct {
	ProjectID      uuid.UUID           `json:"project_id" validate:"required"`
	PhaseBlockID   *uuid.UUID          `json:"phase_block_id,omitempty"`
	UnitNumber     string              `json:"unit_number" validate:"required,max=50"`
	UnitType       models.UnitType     `json:"unit_type" validate:"required,oneof=plot file flat villa commercial"`
	Category       models.CategoryType `json:"category,omitempty" validate:"omitempty,oneof=residential commercial agricultural"`
	Size           float64             `json:"size,omitempty" validate:"gte=0"`
	Price          float64             `json:"price" validate:"required,gt=0"`
	InvestorLocked bool                `json:"investor_locked"`
	InvestorID     *uuid.UUID          `json:"investor_id,omitempty"`
	Remarks        string              `json:"remarks,omitempty"`
}

// UpdateUnitFieldsInput updates descriptive attributes only. Status,
// holder and expiry are controlled by the workflows and have no fields here.
type UpdateUnitFieldsInput struct {
	PhaseBlockID *uuid.UUID           `json:"phase_block_id,omitempty"`
	UnitNumber   *string              `json:"unit_number,omitempty" validate:"omitempty,max=50"`
	Category     *models.CategoryType `json:"category,omitempty" validate:"omitempty,oneof=residential commercial agricultural"`
	Size         *float64             `json:"size,omitempty" validate:"omitempty,gte=0"`
	Price        *float64             `json:"price,omitempty" validate:"omitempty,gt=0"`
	Remarks      *string              `json:"remarks,omitempty"`
}

type CreateBookingInput struct {
	UnitID     uuid.UUID          `json:"unit_id" validate:"required"`
	CustomerID uuid.UUID          `json:"customer_id" validate:"required"`
	Amount     float64            `json:"amount" validate:"required,gt=0"`
	Type       models.BookingType `json:"type" validate:"required,oneof=hold booking sale"`
	Remarks    string             `json:"remarks,omitempty"`
}

type CreateTransferInput struct {
	UnitID         uuid.UUID `json:"unit_id" validate:"required"`
	BookingID      uuid.UUID `json:"booking_id" validate:"required"`
	FromCustomerID uuid.UUID `json:"from_customer_id" validate:"required"`
	ToCustomerID   uuid.UUID `json:"to_customer_id" validate:"required"`
	Fee            *float64  `json:"fee,omitempty" validate:"omitempty,gte=0"`
	Remarks        string    `json:"remarks,omitempty"`
}

type UpdateTransferInput struct {
	ToCustomerID *uuid.UUID `json:"to_customer_id,omitempty"`
	Fee          *float64   `json:"fee,omitempty" validate:"omitempty,gte=0"`
	Remarks      *string    `json:"remarks,omitempty"`
}

type AssignInvestorInput struct {
	UnitID          uuid.UUID `json:"unit_id" validate:"required"`
	InvestorID      uuid.UUID `json:"investor_id" validate:"required"`
	PercentageShare float64   `json:"percentage_share" validate:"required,gt=0,lte=100"`
	ConsentRequired bool      `json:"consent_required"`
}

type CreateProjectInput struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
	Name     string    `json:"name" validate:"required,max=200"`
}

type PlaceHoldInput struct {
	UnitID uuid.UUID `json:"unit_id" validate:"required"`
	// TTL overrides the configured default hold duration when positive.
	TTL time.Duration `json:"ttl,omitempty" validate:"omitempty,gt=0"`
}
