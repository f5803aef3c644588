package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryStatusActive   = "active"
	CategoryStatusInactive = "inactive"
)

type Category struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name         string               `bson:"name" json:"name"`
	Slug         string               `bson:"slug" json:"slug"`
	Description  string               `bson:"description" json:"description"`
	Image        string               `bson:"image" json:"image"`
	Products     []primitive.ObjectID `bson:"products" json:"products"`
	Status       string               `bson:"status" json:"status"`
	ProductCount int                  `bson:"-" json:"productCount"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

type CategorySummary struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
	Slug string             `json:"slug"`
}

type CategoryProducts struct {
	Category     CategorySummary `json:"category"`
	Products     []Product       `json:"products"`
	ProductCount int             `json:"productCount"`
}
