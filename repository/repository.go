// Package repository persists storefront documents. Every backend satisfies
// Store; MongoDB is the production backend and the in-memory one serves local
// runs and tests.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Page selects a 1-based page of Limit documents. A zero Limit means no limit.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Skip() int {
	if p.Number < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

// OrderQuery filters orders. Empty fields do not filter.
type OrderQuery struct {
	Statuses []models.OrderStatus
	// Email matches customer.email exactly. Stored emails are lowercase.
	Email string
	// Search is a case-insensitive substring match over the order number and
	// the customer's email, names and phone.
	Search string
}

// OrderUpdate carries the mutable order fields. Nil fields are left alone.
type OrderUpdate struct {
	Status    *models.OrderStatus
	Notes     *string
	UpdatedAt time.Time
}

type OrderRepository interface {
	// NextOrderNumber atomically advances the order sequence and returns the new value.
	NextOrderNumber(ctx context.Context) (int64, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	// ListOrders returns matching orders newest first.
	ListOrders(ctx context.Context, q OrderQuery, page Page) ([]models.Order, error)
	CountOrders(ctx context.Context, q OrderQuery) (int64, error)
	SumOrderTotals(ctx context.Context, q OrderQuery) (float64, error)
	UpdateOrder(ctx context.Context, id primitive.ObjectID, update OrderUpdate) (models.Order, error)
}

type StockFilter int

const (
	StockAny StockFilter = iota
	StockOut
	StockLow
)

type ProductQuery struct {
	Status   models.ProductStatus
	Category string
	Featured *bool
	IDs      []primitive.ObjectID
	Stock    StockFilter
}

type ProductRepository interface {
	// ListProducts returns matching products newest first. A limit below 1 returns all.
	ListProducts(ctx context.Context, q ProductQuery, limit int) ([]models.Product, error)
	CountProducts(ctx context.Context, q ProductQuery) (int64, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	InsertProduct(ctx context.Context, product *models.Product) error
	ReplaceProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

type CategoryRepository interface {
	// ListCategories returns categories newest first, optionally restricted to one status.
	ListCategories(ctx context.Context, status string) ([]models.Category, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	// CategoryExists reports whether a category other than exclude already uses name or slug.
	CategoryExists(ctx context.Context, name, slug string, exclude primitive.ObjectID) (bool, error)
	InsertCategory(ctx context.Context, category *models.Category) error
	ReplaceCategory(ctx context.Context, category models.Category) error
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

type UserQuery struct {
	// Search is a case-insensitive substring match over name, email and phone.
	Search string
}

type UserRepository interface {
	InsertUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (models.User, error)
	ListUsers(ctx context.Context, q UserQuery, page Page) ([]models.User, error)
	CountUsers(ctx context.Context, q UserQuery) (int64, error)
	ReplaceUser(ctx context.Context, user models.User) error
}

// AttemptRepository counts events per key inside a fixed window.
type AttemptRepository interface {
	// HitAttempt records one attempt and returns the count in the current window.
	// The window starts at the first attempt after the previous one expired.
	HitAttempt(ctx context.Context, key string, window time.Duration) (int, error)
	ResetAttempts(ctx context.Context, key string) error
}

type Store interface {
	OrderRepository
	ProductRepository
	CategoryRepository
	UserRepository
	AttemptRepository

	EnsureIndexes(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Store             = (*MongoStore)(nil)
	_ Store             = (*MemoryStore)(nil)
	_ AttemptRepository = (*MemoryAttempts)(nil)
)
