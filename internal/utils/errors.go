package utils

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

/*
   Sentinel errors for the reservation/booking/transfer domain.
   Callers do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrAlreadyInState    = errors.New("already_in_state")
	ErrConsentRequired   = errors.New("consent_required")
	ErrHoldExpired       = errors.New("hold_expired")
	ErrConflict          = errors.New("conflict")
	ErrQuotaExceeded     = errors.New("quota_exceeded")
	ErrTenantMismatch    = errors.New("tenant_mismatch")
	ErrForbidden         = errors.New("forbidden")
	ErrBusy              = errors.New("busy")
	ErrInvalidReference  = errors.New("invalid_reference")
	ErrValidation        = errors.New("validation_failed")

	// For concurrency conflicts between read and conditional update.
	ErrRowVersionConflict = errors.New("row_version_conflict")
)

/*
   ConsentRequiredError names the consent-required assignments that have no
   active consent record, so the caller can show which investors still block
   the transition. errors.Is(err, ErrConsentRequired) matches it.
*/
type ConsentRequiredError struct {
	UnitID                 uuid.UUID
	UnsatisfiedAssignments []uuid.UUID
}

func (e *ConsentRequiredError) Error() string {
	return fmt.Sprintf("consent_required: unit %s has %d assignment(s) without consent",
		e.UnitID, len(e.UnsatisfiedAssignments))
}

func (e *ConsentRequiredError) Unwrap() error { return ErrConsentRequired }

/*
   ConflictError is returned when a concurrent allocation won the race.
   It carries the losing operation's view of the latest state when known.
*/
type ConflictError struct {
	EntityID uuid.UUID
	Detail   string
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return "conflict"
	}
	return "conflict: " + e.Detail
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
