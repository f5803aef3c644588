package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status an order can hold, in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// RevenueStatuses are the statuses counted towards revenue: everything except cancelled.
var RevenueStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type ShippingMethod string

const (
	ShippingInside  ShippingMethod = "inside"
	ShippingOutside ShippingMethod = "outside"
)

const (
	ShippingInsidePrice  = 60
	ShippingOutsidePrice = 120
)

func (m ShippingMethod) Valid() bool {
	return m == ShippingInside || m == ShippingOutside
}

// Price returns the fixed delivery charge for the zone. Unknown zones cost the same as inside.
func (m ShippingMethod) Price() float64 {
	if m == ShippingOutside {
		return ShippingOutsidePrice
	}
	return ShippingInsidePrice
}

const (
	PaymentCashOnDelivery = "cash_on_delivery"
	DefaultCountry        = "Bangladesh"
	OrderNumberPrefix     = "ORD-"
)

type Customer struct {
	Email     string `bson:"email" json:"email" validate:"required"`
	FirstName string `bson:"firstName" json:"firstName" validate:"required"`
	LastName  string `bson:"lastName" json:"lastName"`
	Phone     string `bson:"phone" json:"phone" validate:"required"`
	Address   string `bson:"address" json:"address" validate:"required"`
	City      string `bson:"city" json:"city"`
	Province  string `bson:"province" json:"province"`
	Zip       string `bson:"zip" json:"zip"`
	Country   string `bson:"country" json:"country"`
}

func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// OrderItem is a line item frozen at order time. It never tracks later product changes.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image" json:"image"`
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OrderNumber    string             `bson:"orderNumber" json:"orderNumber"`
	Customer       Customer           `bson:"customer" json:"customer"`
	Items          []OrderItem        `bson:"items" json:"items"`
	Subtotal       float64            `bson:"subtotal" json:"subtotal"`
	Shipping       float64            `bson:"shipping" json:"shipping"`
	Tax            float64            `bson:"tax" json:"tax"`
	Total          float64            `bson:"total" json:"total"`
	ShippingMethod ShippingMethod     `bson:"shippingMethod" json:"shippingMethod"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	Status         OrderStatus        `bson:"status" json:"status"`
	Notes          string             `bson:"notes" json:"notes"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CheckoutItem is one line of an incoming checkout payload.
type CheckoutItem struct {
	ProductID string  `json:"productId" validate:"productid"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"min=0"`
	Quantity  int     `json:"quantity" validate:"min=1"`
	Image     string  `json:"image"`
}

// CheckoutRequest is the order submission payload. Amounts are pointers so a
// missing field can be told apart from an explicit zero.
type CheckoutRequest struct {
	Customer       *Customer      `json:"customer" validate:"required"`
	Items          []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	Subtotal       *float64       `json:"subtotal" validate:"required,min=0"`
	Shipping       *float64       `json:"shipping" validate:"required,min=0"`
	Tax            *float64       `json:"tax,omitempty" validate:"omitempty,min=0"`
	Total          *float64       `json:"total" validate:"required,min=0"`
	ShippingMethod ShippingMethod `json:"shippingMethod,omitempty" validate:"omitempty,oneof=inside outside"`
	PaymentMethod  string         `json:"paymentMethod,omitempty"`
	Notes          string         `json:"notes,omitempty"`
}

type OrderUpdateRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}
