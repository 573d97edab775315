package state

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE client_state (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestStore_FlagsDefaultFalse(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	done, err := s.OnboardingComplete(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	unlocked, err := s.AccessUnlocked(ctx)
	require.NoError(t, err)
	assert.False(t, unlocked)
}

func TestStore_OnboardingPersists(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.SetOnboardingComplete(ctx))

	done, err := s.OnboardingComplete(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	// Idempotent.
	require.NoError(t, s.SetOnboardingComplete(ctx))
}

func TestStore_UnlockRequiresCorrectCode(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	ok, err := s.Unlock(ctx, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	unlocked, err := s.AccessUnlocked(ctx)
	require.NoError(t, err)
	assert.False(t, unlocked, "a failed attempt must not unlock")

	ok, err = s.Unlock(ctx, AccessCode)
	require.NoError(t, err)
	assert.True(t, ok)

	unlocked, err = s.AccessUnlocked(ctx)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestValidateAccessCode(t *testing.T) {
	assert.True(t, ValidateAccessCode("sach26"))
	assert.False(t, ValidateAccessCode("SACH26"))
	assert.False(t, ValidateAccessCode(""))
}

func TestOpen_MigratesFreshFile(t *testing.T) {
	s, db, err := Open(context.Background(), t.TempDir()+"/state.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	done, err := s.OnboardingComplete(context.Background())
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, s.SetOnboardingComplete(context.Background()))
	done, err = s.OnboardingComplete(context.Background())
	require.NoError(t, err)
	assert.True(t, done)
}
