package rest

import (
	"context"
	"myShopHub/domain"
	"myShopHub/internal/middleware"
	"myShopHub/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ReviewService interface {
	CreateReview(ctx context.Context, userID, productID uint, rating int, comment string) (domain.Review, error)
	GetProductReviews(ctx context.Context, productID uint) ([]domain.Review, error)
	UpdateReview(ctx context.Context, userID, id uint, rating *int, comment *string) (domain.Review, error)
	DeleteReview(ctx context.Context, userID, id uint) error
	GetReviewStats(ctx context.Context, productID uint) (domain.ReviewStats, error)
}

type ReviewHandler struct {
	reviewService ReviewService
	validate      *validator.Validate
	timeout       time.Duration
}

func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
		timeout:       10 * time.Second,
	}
}

type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, err.Error())
	}

	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, "product_id is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := h.reviewService.CreateReview(ctx, userID, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		logger.Error("Failed to create review", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(review))
}

func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	productID, err := paramID(c, "productId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviewService.GetProductReviews(ctx, productID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(reviews))
}

func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID, _ := middleware.UserID(c)

	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := h.reviewService.UpdateReview(ctx, userID, id, req.Rating, req.Comment)
	if err != nil {
		logger.Error("Failed to update review", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(review))
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.reviewService.DeleteReview(ctx, userID, id); err != nil {
		logger.Error("Failed to delete review", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Review deleted successfully"))
}

func (h *ReviewHandler) GetReviewStats(c echo.Context) error {
	productID, err := paramID(c, "productId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.reviewService.GetReviewStats(ctx, productID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}
