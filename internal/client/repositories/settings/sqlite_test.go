package settings

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	r, db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return r, db
}

func TestOpen_MigratesSchema(t *testing.T) {
	_, db := setupRepo(t)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestOpen_IsIdempotentOnFile(t *testing.T) {
	dsn := t.TempDir() + "/settings.db"
	ctx := context.Background()

	r, db, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, r.Set(ctx, KeyTheme, "dark"))
	require.NoError(t, db.Close())

	r, db, err = Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := r.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v, "value survives a reopen")
}

func TestGet_Missing(t *testing.T) {
	r, _ := setupRepo(t)

	v, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSet_Upserts(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyGridSize, "3"))
	require.NoError(t, r.Set(ctx, KeyGridSize, "auto"))

	v, ok, err := r.Get(ctx, KeyGridSize)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "auto", v)
}

func TestSetMany_ListAndDelete(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string]string{KeyTheme: "dark", KeyGridSize: "4"}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyTheme: "dark", KeyGridSize: "4"}, m)

	require.NoError(t, r.Delete(ctx, KeyTheme))
	require.NoError(t, r.Delete(ctx, KeyTheme), "delete is idempotent")

	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyGridSize: "4"}, m)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := withTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, set(ctx, tx, KeyTheme, "dark"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := r.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok, "write must be rolled back")
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()

	require.Panics(t, func() {
		_ = withTx(ctx, db, func(ctx context.Context, tx DBTX) error {
			_ = set(ctx, tx, KeyTheme, "dark")
			panic("kaboom")
		})
	})

	_, ok, err := r.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClosedDB_ErrorsAreWrapped(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get setting[k]")

	require.ErrorContains(t, r.Set(ctx, "k", "v"), "failed to set setting[k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete setting[k]")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list settings")

	require.ErrorContains(t, r.SetMany(ctx, map[string]string{"k": "v"}), "begin tx")
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		assert.Equal(t, ".", dir)
		return errors.New("migrate failed")
	}
	defer func() { gooseUpContext = orig }()

	_, _, err := Open(context.Background(), ":memory:")
	require.ErrorContains(t, err, "run migrations: migrate failed")
}
