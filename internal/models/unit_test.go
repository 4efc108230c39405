package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHoldExpired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	held := &Unit{Status: UnitStatusOnHold, HoldExpiresAt: &future}
	require.False(t, held.HoldExpired(now))

	held.HoldExpiresAt = &past
	require.True(t, held.HoldExpired(now))

	// Only an on-hold unit can have a lapsed hold.
	available := &Unit{Status: UnitStatusAvailable, HoldExpiresAt: &past}
	require.False(t, available.HoldExpired(now))

	missingExpiry := &Unit{Status: UnitStatusOnHold}
	require.False(t, missingExpiry.HoldExpired(now))
}

func TestConsentRecordActive(t *testing.T) {
	now := time.Now().UTC()
	rec := &ConsentRecord{GrantedAt: now}
	require.True(t, rec.Active())

	rec.RevokedAt = &now
	require.False(t, rec.Active())
}
