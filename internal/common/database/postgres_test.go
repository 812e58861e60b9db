package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"employment-application/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestWithConnTx_Commit(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO t`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := WithConnTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO t VALUES (1)`)
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestWithConnTx_RollbackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithConnTx(context.Background(), db, func(tx *sql.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestWithConnTx_RollbackOnPanic(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithConnTx(context.Background(), db, func(tx *sql.Tx) error {
			panic("unexpected")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestWithConnTx_BeginFails(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err := WithConnTx(context.Background(), db, func(tx *sql.Tx) error {
		called = true
		return nil
	})

	var txErr *TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, TxOpBegin, txErr.Op)
	assert.Equal(t, "connection refused", txErr.Err.Error())
	assert.Equal(t, "begin transaction: connection refused", err.Error())
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithConnTx_CommitFails(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := WithConnTx(context.Background(), db, func(tx *sql.Tx) error { return nil })

	var txErr *TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, TxOpCommit, txErr.Op)
	assert.Contains(t, err.Error(), "serialization failure")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgres_DoesNotDial(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, Database: "x", User: "y",
		SSLMode: "disable", ConnectTimeout: 1, MaxConnections: 2, MaxIdle: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, client.DB.Stats().MaxOpenConnections)
	assert.NoError(t, client.Close())
}
