package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/backend/internal/entity"
)

func TestSummarize(t *testing.T) {
	reviews := []entity.Review{
		{Rating: 5}, {Rating: 5}, {Rating: 4},
	}

	sum := Summarize(reviews)
	assert.Equal(t, 4.7, sum.Average, "14/3 rounded to one decimal")
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 2}, sum.Distribution)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil)
	assert.Equal(t, float64(0), sum.Average)
	assert.Equal(t, 0, sum.Total)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, sum.Distribution)
}

func TestSubmit_RejectsBadInput(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), newFakeOrderRepo())

	_, err := svc.Submit(context.Background(), "u1", "p1", 0, "")
	assert.ErrorIs(t, err, entity.ErrInvalidRating)

	_, err = svc.Submit(context.Background(), "u1", "p1", 6, "")
	assert.ErrorIs(t, err, entity.ErrInvalidRating)

	_, err = svc.Submit(context.Background(), "u1", "p1", 5, strings.Repeat("x", 1001))
	assert.ErrorIs(t, err, entity.ErrCommentTooLong)
}

func TestSubmit_RequiresQualifyingPurchase(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.qualifying = false
	svc := NewReviewService(newFakeReviewRepo(), orderRepo)

	_, err := svc.Submit(context.Background(), "u1", "p1", 5, "great")
	assert.ErrorIs(t, err, entity.ErrReviewNotEligible)
}

func TestSubmit_CreatesThenEditsInPlace(t *testing.T) {
	reviewRepo := newFakeReviewRepo()
	orderRepo := newFakeOrderRepo()
	orderRepo.qualifying = true
	svc := NewReviewService(reviewRepo, orderRepo)

	created, err := svc.Submit(context.Background(), "u1", "p1", 5, "excelente")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 5, created.Rating)

	// A second submission for the same product edits the existing review.
	edited, err := svc.Submit(context.Background(), "u1", "p1", 3, "regular")
	require.NoError(t, err)
	assert.Equal(t, created.ID, edited.ID)
	assert.Equal(t, 3, edited.Rating)
	assert.Equal(t, "regular", edited.Comment)
	assert.True(t, edited.UpdatedAt.After(created.CreatedAt) || edited.UpdatedAt.Equal(created.CreatedAt))

	reviews, err := svc.ProductReviews(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, reviews, 1, "edit must not create a second review")
}

func TestDelete_OwnReviewOnly(t *testing.T) {
	reviewRepo := newFakeReviewRepo()
	orderRepo := newFakeOrderRepo()
	orderRepo.qualifying = true
	svc := NewReviewService(reviewRepo, orderRepo)

	_, err := svc.Submit(context.Background(), "u1", "p1", 4, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), "u2", "p1"), entity.ErrNotFound)
	assert.NoError(t, svc.Delete(context.Background(), "u1", "p1"))

	reviews, err := svc.ProductReviews(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
