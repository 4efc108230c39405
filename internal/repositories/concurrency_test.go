package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/utils"
)

type versionedThing struct {
	models.Versioned
	ID    string
	Value int
}

func (v *versionedThing) GetID() string { return v.ID }

// memTable simulates the row_version CAS the SQL layer performs.
type memTable struct {
	row *versionedThing
	// staleReads makes the first n conditional updates lose, as if another
	// writer bumped the version between read and write.
	staleReads int
	updates    int
}

func (m *memTable) getByID(ctx context.Context, id string) (*versionedThing, error) {
	if m.row == nil || m.row.ID != id {
		return nil, nil
	}
	c := *m.row
	return &c, nil
}

func (m *memTable) updateIfVersion(ctx context.Context, e *versionedThing, expected int64) (pgconn.CommandTag, error) {
	m.updates++
	if m.staleReads > 0 {
		m.staleReads--
		m.row.RowVersion++
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	if m.row.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	e.SetRowVersion(expected + 1)
	c := *e
	m.row = &c
	return pgconn.CommandTag("UPDATE 1"), nil
}

func TestWithRetryFirstAttempt(t *testing.T) {
	table := &memTable{row: &versionedThing{ID: "a", Value: 1, Versioned: models.Versioned{RowVersion: 1}}}

	err := WithRetry(context.Background(), 3, "a", table.getByID, table.updateIfVersion,
		func(v *versionedThing) error {
			v.Value = 2
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, 2, table.row.Value)
	require.Equal(t, int64(2), table.row.RowVersion)
	require.Equal(t, 1, table.updates)
}

func TestWithRetryRecoversFromStaleVersion(t *testing.T) {
	table := &memTable{
		row:        &versionedThing{ID: "a", Value: 1, Versioned: models.Versioned{RowVersion: 1}},
		staleReads: 1,
	}

	err := WithRetry(context.Background(), 3, "a", table.getByID, table.updateIfVersion,
		func(v *versionedThing) error {
			v.Value++
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, 2, table.row.Value)
	require.Equal(t, 2, table.updates)
}

func TestWithRetryExhaustsRetries(t *testing.T) {
	table := &memTable{
		row:        &versionedThing{ID: "a", Value: 1, Versioned: models.Versioned{RowVersion: 1}},
		staleReads: 5,
	}

	err := WithRetry(context.Background(), 3, "a", table.getByID, table.updateIfVersion,
		func(v *versionedThing) error { return nil })
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
	require.Equal(t, 3, table.updates)
}

func TestWithRetryNotFound(t *testing.T) {
	table := &memTable{}

	err := WithRetry(context.Background(), 3, "missing", table.getByID, table.updateIfVersion,
		func(v *versionedThing) error { return nil })
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestWithRetryMutateErrorStopsLoop(t *testing.T) {
	table := &memTable{row: &versionedThing{ID: "a", Versioned: models.Versioned{RowVersion: 1}}}
	boom := errors.New("precondition failed")

	err := WithRetry(context.Background(), 3, "a", table.getByID, table.updateIfVersion,
		func(v *versionedThing) error { return boom })
	require.ErrorIs(t, err, boom)
	require.Zero(t, table.updates)
}
