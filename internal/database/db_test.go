package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(context.Context, string, ...any) error { return nil }

func (t *fakeTx) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }

func (t *fakeTx) QueryRow(context.Context, string, ...any) Row { return nil }

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (d *fakeDB) Ping(context.Context) error { return nil }

func (d *fakeDB) Close() error { return nil }

func (d *fakeDB) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }

func (d *fakeDB) QueryRow(context.Context, string, ...any) Row { return nil }

func (d *fakeDB) SQLDB() *sql.DB { return nil }

func (d *fakeDB) Begin(context.Context) (Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	d.tx = &fakeTx{}
	return d.tx, nil
}

func TestInTx(t *testing.T) {
	ctx := context.Background()

	db := &fakeDB{}
	assert.NoError(t, InTx(ctx, db, func(Tx) error { return nil }))
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)

	boom := errors.New("boom")
	assert.ErrorIs(t, InTx(ctx, db, func(Tx) error { return boom }), boom)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)

	db = &fakeDB{beginErr: boom}
	called := false
	assert.ErrorIs(t, InTx(ctx, db, func(Tx) error { called = true; return nil }), boom)
	assert.False(t, called)
}
