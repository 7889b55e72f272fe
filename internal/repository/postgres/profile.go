package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a ProfileRepository backed by Postgres.
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByUser(ctx context.Context, userID string) (*entity.Profile, error) {
	var p entity.Profile
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, full_name, phone, email, address, municipality, created_at FROM profiles WHERE user_id = $1",
		userID,
	).Scan(&p.UserID, &p.FullName, &p.Phone, &p.Email, &p.Address, &p.Municipality, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, phone, email, address, municipality)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			municipality = EXCLUDED.municipality`,
		p.UserID, p.FullName, p.Phone, p.Email, p.Address, p.Municipality,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}
