package domain

import "time"

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 100
)

// Review is unique per (user, product).
type Review struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	UserID           uint         `gorm:"column:user_id;not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	User             *UserSummary `gorm:"-" json:"user,omitempty"`
	ProductID        uint         `gorm:"column:product_id;not null;uniqueIndex:idx_reviews_user_product;index" json:"product_id"`
	Rating           int          `gorm:"column:rating;not null" json:"rating"`
	Comment          string       `gorm:"column:comment;type:varchar(100);not null" json:"comment"`
	Helpful          int          `gorm:"column:helpful;not null;default:0" json:"helpful"`
	VerifiedPurchase bool         `gorm:"column:verified_purchase;not null;default:false" json:"verified_purchase"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewStats aggregates the ratings of one product.
type ReviewStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}
