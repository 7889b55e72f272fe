package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

type favoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a FavoriteRepository backed by Postgres.
func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) FindByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.product_id, f.created_at,
		       p.id, p.name, p.description, p.price, p.stock, p.image_url, p.category_id, p.is_active, p.created_at
		FROM favorites f
		JOIN products p ON p.id = f.product_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []entity.Favorite
	for rows.Next() {
		var f entity.Favorite
		var p entity.Product
		if err := rows.Scan(&f.ID, &f.UserID, &f.ProductID, &f.CreatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CategoryID, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		f.Product = &p
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)",
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

func (r *favoriteRepository) Insert(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (id, user_id, product_id, created_at) VALUES ($1, $2, $3, $4)",
		uuid.NewString(), userID, productID, time.Now(),
	)
	if isUniqueViolation(err) {
		return entity.ErrDuplicateFavorite
	}
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}
