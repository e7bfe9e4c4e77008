package domain

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User password is nil for accounts that only ever signed in with Google.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password  *string   `gorm:"column:password" json:"-"`
	Role      string    `gorm:"column:role;not null;default:user" json:"role"`
	GoogleID  *string   `gorm:"column:google_id" json:"-"`
	Provider  string    `gorm:"column:provider;not null;default:local" json:"provider"`
	Avatar    *string   `gorm:"column:avatar" json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the owner identity embedded in orders and reviews.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (u User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
