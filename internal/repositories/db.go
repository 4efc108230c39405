package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/tooba16/real-states/internal/utils"
)

// DB is the slice of pgxpool.Pool the repositories need. Satisfied by
// *pgxpool.Pool and by pgx.Tx, so repositories can run inside an outer
// transaction when needed.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// busyErr maps transaction/lock acquisition timeouts to the retryable
// busy error; everything else passes through.
func busyErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return utils.ErrBusy
	}
	return err
}

// finishTx commits on success and rolls back otherwise. Commit errors
// (including deadline expiry mid-commit) surface as busy/storage errors.
func finishTx(ctx context.Context, tx pgx.Tx, err error) error {
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if cerr := tx.Commit(ctx); cerr != nil {
		return busyErr(cerr)
	}
	return nil
}
