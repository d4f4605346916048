package project

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSQL(t *testing.T) (sqlmock.Sqlmock, *SQLKV) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, NewSQLKV(sqlx.NewDb(db, "postgres"), "calcbuild_kv")
}

const (
	selectValue = `SELECT value FROM "calcbuild_kv" WHERE key = $1`
	upsertValue = `INSERT INTO "calcbuild_kv" (key, value) VALUES ($1, $2)`
)

func TestSQLKVEnsureSchema(t *testing.T) {
	mock, kv := setupSQL(t)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "calcbuild_kv"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, kv.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKVGetMissing(t *testing.T) {
	mock, kv := setupSQL(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("calcbuild_projects").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := kv.Get(context.Background(), "calcbuild_projects")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKVGetSet(t *testing.T) {
	ctx := context.Background()
	mock, kv := setupSQL(t)

	mock.ExpectExec(regexp.QuoteMeta(upsertValue)).
		WithArgs("calcbuild_projects", `{"A":{}}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("calcbuild_projects").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"A":{}}`))

	require.NoError(t, kv.Set(ctx, "calcbuild_projects", `{"A":{}}`))
	got, ok, err := kv.Get(ctx, "calcbuild_projects")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"A":{}}`, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKVQueryError(t *testing.T) {
	mock, kv := setupSQL(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("k").
		WillReturnError(assert.AnError)

	_, _, err := kv.Get(context.Background(), "k")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositorySave(t *testing.T) {
	ctx := context.Background()
	mock, kv := setupSQL(t)
	repo := NewRepository(kv, model.DefaultStorageKey, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs(model.DefaultStorageKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("corrupted"))
	mock.ExpectExec(regexp.QuoteMeta(upsertValue)).
		WithArgs(model.DefaultStorageKey, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := model.NewProject()
	p.ProjectName = "Studio"
	key, err := repo.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Studio", key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKVTableNameIsQuoted(t *testing.T) {
	mock, kv := setupSQL(t)
	kv = NewSQLKV(kv.db, `weird"name`)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM "weird""name" WHERE key = $1`)).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("v"))

	got, ok, err := kv.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
