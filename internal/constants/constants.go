package constants

import "time"

const (
	// DefaultHoldTTL is how long a hold reserves a unit when the caller does
	// not supply a TTL. 7 days, matching the sales-floor policy.
	DefaultHoldTTL = 168 * time.Hour

	// MaxHoldExtension caps the total extension beyond the initial expiry.
	MaxHoldExtension = 336 * time.Hour

	// TransferFeePercent is applied to the unit price when a transfer is
	// created without an explicit fee.
	TransferFeePercent = 2.0

	// DefaultMaxProjects is the per-tenant ceiling on concurrently active
	// projects when the tenant record does not configure one.
	DefaultMaxProjects = 10

	// MaxUpdateRetries bounds the optimistic-locking retry loop.
	MaxUpdateRetries = 3

	// BookingReferencePrefix prefixes generated booking reference codes,
	// e.g. BKG-20260824-3F9A11BC.
	BookingReferencePrefix = "BKG"
)
