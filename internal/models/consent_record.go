package models

import (
	"time"

	"github.com/google/uuid"
)

// ConsentRecord captures that an investor actually granted consent for a
// consent-required assignment. A revoked record no longer satisfies the gate.
type ConsentRecord struct {
	ID           uuid.UUID  `json:"id"`
	AssignmentID uuid.UUID  `json:"assignment_id"`
	GrantedByID  uuid.UUID  `json:"granted_by_id"`
	GrantedAt    time.Time  `json:"granted_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

// Active reports whether the record still satisfies the consent gate.
func (c *ConsentRecord) Active() bool {
	return c.RevokedAt == nil
}
