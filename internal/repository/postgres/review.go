package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a ReviewRepository backed by Postgres.
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) FindByProduct(ctx context.Context, productID string) ([]entity.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment, r.created_at, r.updated_at,
		       COALESCE(p.full_name, '')
		FROM reviews r
		LEFT JOIN profiles p ON p.user_id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		var rev entity.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.ProductID, &rev.Rating, &rev.Comment,
			&rev.CreatedAt, &rev.UpdatedAt, &rev.ReviewerName); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) FindUserReview(ctx context.Context, userID, productID string) (*entity.Review, error) {
	var rev entity.Review
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, product_id, rating, comment, created_at, updated_at FROM reviews WHERE user_id = $1 AND product_id = $2",
		userID, productID,
	).Scan(&rev.ID, &rev.UserID, &rev.ProductID, &rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return &rev, nil
}

func (r *reviewRepository) Insert(ctx context.Context, rev *entity.Review) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (id, user_id, product_id, rating, comment, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		rev.ID, rev.UserID, rev.ProductID, rev.Rating, rev.Comment, rev.CreatedAt, rev.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return entity.ErrDuplicateReview
	}
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, rev *entity.Review) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET rating = $3, comment = $4, updated_at = $5 WHERE id = $1 AND user_id = $2",
		rev.ID, rev.UserID, rev.Rating, rev.Comment, rev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM reviews WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// isUniqueViolation detects Postgres error 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
