package postgres

import (
	"context"
	"errors"
	"fmt"
	"myShopHub/domain"
	"time"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		DB: db,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := r.DB.WithContext(ctx).Create(review).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (domain.Review, error) {
	var review domain.Review
	err := r.DB.WithContext(ctx).First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Review{}, domain.ErrReviewNotFound
		}
		return domain.Review{}, fmt.Errorf("failed to find review: %w", err)
	}

	return review, nil
}

func (r *ReviewRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&domain.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review: %w", err)
	}

	return n > 0, nil
}

func (r *ReviewRepository) FindByProduct(ctx context.Context, productID uint) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	if len(reviews) == 0 {
		return reviews, nil
	}

	ids := make([]uint, 0, len(reviews))
	for _, rv := range reviews {
		ids = append(ids, rv.UserID)
	}

	reviewers, err := NewUserRepository(r.DB).FindSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range reviews {
		if reviewer, ok := reviewers[reviews[i].UserID]; ok {
			reviews[i].User = &domain.UserSummary{ID: reviewer.ID, Name: reviewer.Name}
		}
	}

	return reviews, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	review.UpdatedAt = time.Now()

	result := r.DB.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", review.ID).
		Select("rating", "comment", "updated_at").
		Updates(review)
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&domain.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}

// Ratings returns every rating recorded for the product.
func (r *ReviewRepository) Ratings(ctx context.Context, productID uint) ([]int, error) {
	var ratings []int
	err := r.DB.WithContext(ctx).Model(&domain.Review{}).
		Where("product_id = ?", productID).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	return ratings, nil
}
