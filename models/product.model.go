package models

import "time"

// ProductCategory is the fixed set of rentable equipment categories
type ProductCategory string

const (
	CategoryCargoBox    ProductCategory = "cargo_box"
	CategoryBikeCarrier ProductCategory = "bike_carrier"
)

// Product represents a rentable item. "Deleting" a product only flips
// Available to false so historical bookings keep a valid reference.
type Product struct {
	ID              string            `bson:"_id" json:"id"`
	Name            string            `bson:"name" json:"name"`
	Description     string            `bson:"description" json:"description"`
	Category        ProductCategory   `bson:"category" json:"category"`
	DailyRate       string            `bson:"daily_rate" json:"dailyRate"`
	SecurityDeposit string            `bson:"security_deposit" json:"securityDeposit"`
	Specifications  map[string]string `bson:"specifications" json:"specifications"`
	CompatibleCars  []string          `bson:"compatible_cars" json:"compatibleCars"`
	Images          []string          `bson:"images" json:"images"`
	Available       bool              `bson:"available" json:"available"`
	CreatedAt       time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updatedAt"`
}

// ValidCategory reports whether c is a known product category
func ValidCategory(c ProductCategory) bool {
	return c == CategoryCargoBox || c == CategoryBikeCarrier
}
