package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type RegisterData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the admin listing row: the account plus its order history totals.
type UserSummary struct {
	ID         primitive.ObjectID `json:"_id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone"`
	Role       string             `json:"role"`
	Image      string             `json:"image,omitempty"`
	Orders     int64              `json:"orders"`
	TotalSpent float64            `json:"totalSpent"`
	Joined     time.Time          `json:"joined"`
}
