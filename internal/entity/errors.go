package entity

import "errors"

// Domain errors. Handlers map these to HTTP status codes; everything else
// surfaces as a generic retryable failure.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrDuplicateFavorite  = errors.New("product already in favorites")
	ErrDuplicateReview    = errors.New("review already exists for this product")
	ErrReviewNotEligible  = errors.New("only customers who purchased this product can review it")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong     = errors.New("comment must be 1000 characters or fewer")
	ErrQuantityOutOfRange = errors.New("quantity must be between 1 and the available stock")
)
