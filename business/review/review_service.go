package review

import (
	"context"
	"errors"
	"fmt"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/metrics"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id uint) (domain.Review, error)
	Exists(ctx context.Context, userID, productID uint) (bool, error)
	FindByProduct(ctx context.Context, productID uint) ([]domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uint) error
	Ratings(ctx context.Context, productID uint) ([]int, error)
}

type ProductFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type reviewService struct {
	reviewRepo ReviewRepository
	products   ProductFinder
	users      UserFinder
}

func NewReviewService(reviewRepo ReviewRepository, products ProductFinder, users UserFinder) *reviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		products:   products,
		users:      users,
	}
}

func validateRating(rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.ErrInvalidRating
	}
	return nil
}

func normalizeComment(comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" || utf8.RuneCountInString(comment) > domain.MaxCommentLength {
		return "", domain.ErrInvalidComment
	}
	return comment, nil
}

// CreateReview stores the first review of a user for a product. The
// existence check gives the common case a clean error; the unique index on
// (user_id, product_id) settles concurrent submissions.
func (s *reviewService) CreateReview(ctx context.Context, userID, productID uint, rating int, comment string) (domain.Review, error) {
	if err := validateRating(rating); err != nil {
		return domain.Review{}, err
	}

	comment, err := normalizeComment(comment)
	if err != nil {
		return domain.Review{}, err
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return domain.Review{}, err
	}

	exists, err := s.reviewRepo.Exists(ctx, userID, productID)
	if err != nil {
		logger.Error("Failed to check existing review", err)
		return domain.Review{}, err
	}
	if exists {
		return domain.Review{}, domain.ErrDuplicateReview
	}

	review := domain.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}

	if err := s.reviewRepo.Create(ctx, &review); err != nil {
		if !errors.Is(err, domain.ErrDuplicateReview) {
			logger.Error("Failed to create review", err)
		}
		return domain.Review{}, err
	}

	metrics.ReviewsCreated.Inc()
	s.attachReviewer(ctx, &review)

	return review, nil
}

func (s *reviewService) GetProductReviews(ctx context.Context, productID uint) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		logger.Error("Failed to get product reviews", err)
		return nil, err
	}

	return reviews, nil
}

// UpdateReview changes rating and/or comment of the caller's own review.
// Nil fields are kept.
func (s *reviewService) UpdateReview(ctx context.Context, userID, id uint, rating *int, comment *string) (domain.Review, error) {
	review, err := s.owned(ctx, userID, id)
	if err != nil {
		return domain.Review{}, err
	}

	if rating != nil {
		if err := validateRating(*rating); err != nil {
			return domain.Review{}, err
		}
		review.Rating = *rating
	}

	if comment != nil {
		c, err := normalizeComment(*comment)
		if err != nil {
			return domain.Review{}, err
		}
		review.Comment = c
	}

	if err := s.reviewRepo.Update(ctx, &review); err != nil {
		logger.Error("Failed to update review", err)
		return domain.Review{}, err
	}

	s.attachReviewer(ctx, &review)

	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete review", err)
		return err
	}

	return nil
}

// GetReviewStats averages the ratings to one decimal. No reviews yields
// zero average and zero count.
func (s *reviewService) GetReviewStats(ctx context.Context, productID uint) (domain.ReviewStats, error) {
	ratings, err := s.reviewRepo.Ratings(ctx, productID)
	if err != nil {
		logger.Error("Failed to get review stats", err)
		return domain.ReviewStats{}, err
	}

	return Stats(ratings), nil
}

func Stats(ratings []int) domain.ReviewStats {
	if len(ratings) == 0 {
		return domain.ReviewStats{}
	}

	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}

	avg := decimal.NewFromInt(sum).
		DivRound(decimal.NewFromInt(int64(len(ratings))), 4).
		Round(1)

	return domain.ReviewStats{
		AverageRating: avg.InexactFloat64(),
		TotalReviews:  int64(len(ratings)),
	}
}

func (s *reviewService) owned(ctx context.Context, userID, id uint) (domain.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}

	if review.UserID != userID {
		logger.Warn("review ownership check failed", "review_id", id, "user_id", userID)
		return domain.Review{}, fmt.Errorf("review %d: %w", id, domain.ErrNotReviewOwner)
	}

	return review, nil
}

func (s *reviewService) attachReviewer(ctx context.Context, review *domain.Review) {
	user, err := s.users.FindByID(ctx, review.UserID)
	if err != nil {
		return
	}
	review.User = &domain.UserSummary{ID: user.ID, Name: user.Name}
}
