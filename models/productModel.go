package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// LowStockThreshold is the exclusive upper bound for a product to count as low on stock.
const LowStockThreshold = 10

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description" json:"description"`
	Price          float64            `bson:"price" json:"price"`
	CompareAtPrice *float64           `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	Images         []string           `bson:"images" json:"images"`
	SKU            string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Stock          int                `bson:"stock" json:"stock"`
	Category       string             `bson:"category,omitempty" json:"category,omitempty"`
	Featured       bool               `bson:"featured" json:"featured"`
	Status         ProductStatus      `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductInput carries create and partial-update fields. Nil means "not provided".
type ProductInput struct {
	Name           *string   `json:"name"`
	Description    *string   `json:"description"`
	Price          *float64  `json:"price" validate:"omitempty,min=0"`
	CompareAtPrice *float64  `json:"compareAtPrice" validate:"omitempty,min=0"`
	Images         *[]string `json:"images"`
	SKU            *string   `json:"sku"`
	Stock          *int      `json:"stock" validate:"omitempty,min=0"`
	Category       *string   `json:"category"`
	Status         *string   `json:"status" validate:"omitempty,oneof=active inactive out_of_stock"`
	Featured       *bool     `json:"featured"`
}
