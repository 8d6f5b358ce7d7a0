package domain

import (
	"errors"
)

// StockLevel classifies a product's stock for the console badge.
type StockLevel string

const (
	// StockLevelOut means the product has no units left.
	StockLevelOut StockLevel = "out_of_stock"
	// StockLevelLow means 1 to 10 units remain.
	StockLevelLow StockLevel = "low_stock"
	// StockLevelIn means more than 10 units remain.
	StockLevelIn StockLevel = "in_stock"
)

// lowStockMax is the largest stock count still classified as low.
const lowStockMax = 10

// MinImages is the minimum number of images required to publish a product.
const MinImages = 3

// ErrInsufficientImages is returned when a create/replace carries fewer than
// MinImages files.
var ErrInsufficientImages = errors.New("at least 3 images are required")

// ErrProductNotFound is returned when the catalog store has no such product.
var ErrProductNotFound = errors.New("product not found")

// Product represents a catalog entry owned by the external catalog store.
type Product struct {
	// ID is the product identifier assigned by the store.
	ID string `json:"product_id"`
	// Name is the display name.
	Name string `json:"name"`
	// Category is the catalog category.
	Category string `json:"category,omitempty"`
	// Brand is the product brand.
	Brand string `json:"brand,omitempty"`
	// Price is the listed unit price.
	Price float64 `json:"price"`
	// Stock is the available unit count, never negative.
	Stock int `json:"stock"`
	// Images holds the hosted image URLs, at least MinImages once published.
	Images []string `json:"images"`
}

// StockLevel classifies the product's current stock.
func (p Product) StockLevel() StockLevel {
	return ClassifyStock(p.Stock)
}

// ClassifyStock maps a unit count onto the console's three stock buckets.
// Pure function, no side effects.
func ClassifyStock(stock int) StockLevel {
	switch {
	case stock <= 0:
		return StockLevelOut
	case stock <= lowStockMax:
		return StockLevelLow
	default:
		return StockLevelIn
	}
}

// ValidateImageCount gates publish and replace operations on the minimum
// image policy.
func ValidateImageCount(n int) error {
	if n < MinImages {
		return ErrInsufficientImages
	}
	return nil
}
