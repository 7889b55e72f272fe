package service

import (
	"context"
	"errors"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

// FavoriteService manages the per-user favorite toggles.
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo}
}

// Favorites lists a user's favorites with product details.
func (s *FavoriteService) Favorites(ctx context.Context, userID string) ([]entity.Favorite, error) {
	return s.favoriteRepo.FindByUser(ctx, userID)
}

// Toggle adds the product to favorites, or removes it when already present.
// Returns whether the product is a favorite afterwards.
func (s *FavoriteService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	exists, err := s.favoriteRepo.Exists(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.favoriteRepo.Delete(ctx, userID, productID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.favoriteRepo.Insert(ctx, userID, productID); err != nil {
		// A concurrent toggle can still hit the unique constraint; the
		// product is a favorite either way.
		if errors.Is(err, entity.ErrDuplicateFavorite) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}
