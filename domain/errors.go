package domain

import (
	"errors"
	"fmt"
)

// Categories mapped to HTTP status codes by the rest layer.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrNoItems            = fmt.Errorf("no items: %w", ErrValidation)
	ErrInvalidTotal       = fmt.Errorf("invalid total: %w", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("invalid status, must be one of pending, confirmed, shipped, delivered or cancelled: %w", ErrValidation)
	ErrInvalidRating      = fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	ErrInvalidComment     = fmt.Errorf("comment is required and limited to 100 characters: %w", ErrValidation)
	ErrInvalidCategory    = fmt.Errorf("invalid product category: %w", ErrValidation)
	ErrInvalidRole        = fmt.Errorf("invalid role: %w", ErrValidation)
	ErrFederatedAccount   = fmt.Errorf("use Google login for this account: %w", ErrValidation)
	ErrDuplicateReview    = fmt.Errorf("duplicate: you already reviewed this product: %w", ErrConflict)
	ErrEmailTaken         = fmt.Errorf("email already exists: %w", ErrConflict)
	ErrOrderNumberTaken   = fmt.Errorf("order number already assigned: %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrNotReviewOwner     = fmt.Errorf("not authorized to modify this review: %w", ErrForbidden)
	ErrNotOrderOwner      = fmt.Errorf("order belongs to another user: %w", ErrForbidden)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound      = fmt.Errorf("order %w", ErrNotFound)
	ErrReviewNotFound     = fmt.Errorf("review %w", ErrNotFound)
)
