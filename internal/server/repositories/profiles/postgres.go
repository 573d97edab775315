// Package profiles provides a PostgreSQL-backed repository for the public
// profile records users fill in at signup.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/dbx"
	"github.com/sachwave/sachwave/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `p.user_id, p.name, p.bio, p.class_name, p.year, p.profile_picture, p.last_seen, u.role`

const profileFrom = ` FROM profiles p JOIN users u ON u.id = p.user_id`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.UserID, &p.Name, &p.Bio, &p.ClassName, &p.Year, &p.ProfilePicture, &p.LastSeen, &p.Role)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	query :=
		`INSERT INTO profiles (user_id, name, bio, class_name, year, profile_picture, last_seen)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		   name = EXCLUDED.name,
		   bio = EXCLUDED.bio,
		   class_name = EXCLUDED.class_name,
		   year = EXCLUDED.year,
		   profile_picture = EXCLUDED.profile_picture
		 `

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.Name, profile.Bio, profile.ClassName, profile.Year, profile.ProfilePicture, profile.LastSeen)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + profileFrom + ` WHERE p.user_id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + profileFrom + ` ORDER BY p.name`
	return r.queryProfiles(ctx, query)
}

func (r *PostgresRepository) Search(ctx context.Context, name string) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + profileFrom + ` WHERE p.name ILIKE $1 ORDER BY p.name`
	return r.queryProfiles(ctx, query, "%"+name+"%")
}

func (r *PostgresRepository) queryProfiles(ctx context.Context, query string, args ...any) ([]*models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) TouchLastSeen(ctx context.Context, userID string, seenAt int64) error {
	query :=
		`UPDATE profiles SET last_seen = $2
		 WHERE user_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, seenAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CountActiveSince(ctx context.Context, since int64) (int64, error) {
	query := `SELECT COUNT(*) FROM profiles WHERE last_seen >= $1`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
