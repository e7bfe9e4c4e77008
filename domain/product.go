package domain

import (
	"time"
)

// Category is the closed set of catalog categories.
type Category string

const (
	CategoryShoes       Category = "Shoes"
	CategoryClothing    Category = "Clothing"
	CategoryElectronics Category = "Electronics"
	CategoryAccessories Category = "Accessories"
	CategoryBooks       Category = "Books"
	CategorySports      Category = "Sports"
	CategoryHome        Category = "Home"
	CategoryBeauty      Category = "Beauty"

	DefaultCategory = CategoryClothing
)

var Categories = []Category{
	CategoryShoes,
	CategoryClothing,
	CategoryElectronics,
	CategoryAccessories,
	CategoryBooks,
	CategorySports,
	CategoryHome,
	CategoryBeauty,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Price       float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	InStock     bool      `gorm:"column:in_stock;not null;default:true" json:"in_stock"`
	Category    Category  `gorm:"column:category;type:varchar(32);not null;default:Clothing" json:"category"`
	Image       string    `gorm:"column:image;not null" json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter narrows catalog listings. An empty category matches all.
type ProductFilter struct {
	Category Category
}
