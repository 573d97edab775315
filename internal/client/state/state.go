// Package state persists device-scoped client state: whether onboarding has
// been completed on this device and whether the access gate is unlocked.
// Backed by a small SQLite key/value table so the flags survive restarts.
package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sachwave/sachwave/internal/client/state/migrations"
	"github.com/sachwave/sachwave/internal/dbx"

	_ "modernc.org/sqlite"
)

// AccessCode is the shared code that opens the access gate. Checked
// client-side: the gate is a speed bump for outsiders, not a security
// boundary.
const AccessCode = "sach26"

const (
	keyOnboardingComplete = "onboarding_complete"
	keyAccessUnlocked     = "access_unlocked"
)

// Store reads and writes the device-scoped flags.
type Store struct {
	db dbx.DBTX
}

func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the state file at dsn and applies
// pending migrations.
func Open(ctx context.Context, dsn string) (*Store, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("opening state db: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrating state db: %w", err)
	}

	return NewStore(db), db, nil
}

// OnboardingComplete reports whether onboarding finished on this device.
func (s *Store) OnboardingComplete(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyOnboardingComplete)
}

// SetOnboardingComplete records that onboarding finished.
func (s *Store) SetOnboardingComplete(ctx context.Context) error {
	return s.set(ctx, keyOnboardingComplete, "1")
}

// AccessUnlocked reports whether the access gate was passed on this device.
func (s *Store) AccessUnlocked(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyAccessUnlocked)
}

// Unlock checks code against the access code and persists the unlock on
// match. Returns false without persisting on mismatch.
func (s *Store) Unlock(ctx context.Context, code string) (bool, error) {
	if !ValidateAccessCode(code) {
		return false, nil
	}
	if err := s.set(ctx, keyAccessUnlocked, "1"); err != nil {
		return false, err
	}
	return true, nil
}

// ValidateAccessCode reports whether code opens the gate.
func ValidateAccessCode(code string) bool {
	return code == AccessCode
}

func (s *Store) getBool(ctx context.Context, key string) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get client_state[%s]: %w", key, err)
	}
	return value == "1", nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set client_state[%s]: %w", key, err)
	}
	return nil
}
