package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

// RatingSummary is recomputed from the full review set on every read; at
// the data volumes involved an incremental aggregate is not worth carrying.
type RatingSummary struct {
	Average      float64     `json:"average"`
	Total        int         `json:"total"`
	Distribution map[int]int `json:"distribution"`
}

// ReviewService manages product reviews and their aggregation.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, orderRepo: orderRepo}
}

// ProductReviews lists a product's reviews, newest first.
func (s *ReviewService) ProductReviews(ctx context.Context, productID string) ([]entity.Review, error) {
	return s.reviewRepo.FindByProduct(ctx, productID)
}

// UserReview returns the caller's review of a product, if any.
func (s *ReviewService) UserReview(ctx context.Context, userID, productID string) (*entity.Review, error) {
	return s.reviewRepo.FindUserReview(ctx, userID, productID)
}

// Rating computes the average (one decimal) and the 1..5 bucket counts.
func (s *ReviewService) Rating(ctx context.Context, productID string) (*RatingSummary, error) {
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return Summarize(reviews), nil
}

// Summarize aggregates a review list into a rating summary.
func Summarize(reviews []entity.Review) *RatingSummary {
	summary := &RatingSummary{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	if len(reviews) == 0 {
		return summary
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
		summary.Distribution[r.Rating]++
	}
	summary.Total = len(reviews)
	summary.Average = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return summary
}

// Submit creates the caller's review or, when one already exists for the
// product, edits it in place and bumps updated_at. Creation is gated on a
// qualifying purchase: an order containing the product whose status is past
// pending and not cancelled.
func (s *ReviewService) Submit(ctx context.Context, userID, productID string, rating int, comment string) (*entity.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, entity.ErrInvalidRating
	}
	if len(comment) > 1000 {
		return nil, entity.ErrCommentTooLong
	}

	eligible, err := s.orderRepo.HasQualifyingPurchase(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, entity.ErrReviewNotEligible
	}

	now := time.Now()

	existing, err := s.reviewRepo.FindUserReview(ctx, userID, productID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		existing.Rating = rating
		existing.Comment = comment
		existing.UpdatedAt = now
		if err := s.reviewRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	review := &entity.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviewRepo.Insert(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes the caller's own review.
func (s *ReviewService) Delete(ctx context.Context, userID, productID string) error {
	existing, err := s.reviewRepo.FindUserReview(ctx, userID, productID)
	if err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, existing.ID, userID)
}
