package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/streamly/accounts/internal/accounts/store"
)

var errNestedTx = errors.New("postgres: nested transactions are not supported")

type txStore struct {
	// ctx is detached from cancellation so Commit and Rollback still reach
	// the server after the request context is done.
	ctx context.Context
	tx  pgx.Tx
}

func newTx(ctx context.Context, tx pgx.Tx) *txStore {
	return &txStore{ctx: context.WithoutCancel(ctx), tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit(t.ctx) }
func (t *txStore) Rollback() error { return t.tx.Rollback(t.ctx) }

func (t *txStore) Close() error { return nil } // pool stays open

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errNestedTx
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errNestedTx
}

func (t *txStore) Accounts() store.Accounts { return &accountsRepo{db: t.tx} }
func (t *txStore) Roles() store.Roles       { return &rolesRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
