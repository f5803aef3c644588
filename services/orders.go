package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/repository"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultOrderLimit = 50
	// order number collisions are retried with a fresh sequence value
	maxOrderNumberAttempts = 3
)

// InvoiceSender delivers order confirmations. It reports the outcome instead
// of failing.
type InvoiceSender interface {
	SendOrderInvoice(ctx context.Context, order models.Order) bool
}

type OrderService struct {
	orders   repository.OrderRepository
	invoices InvoiceSender
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

func NewOrderService(orders repository.OrderRepository, invoices InvoiceSender, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		orders:   orders,
		invoices: invoices,
		validate: utils.NewValidator(),
		log:      logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FormatOrderNumber renders a sequence value as ORD-000042.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("%s%06d", models.OrderNumberPrefix, seq)
}

func (s *OrderService) checkCheckout(req models.CheckoutRequest) error {
	if req.Customer == nil || len(req.Items) == 0 {
		return utils.NewValidationError("Customer information and items are required")
	}

	c := req.Customer
	for _, field := range []string{c.Email, c.FirstName, c.Phone, c.Address} {
		if strings.TrimSpace(field) == "" {
			return utils.NewValidationError("Missing required customer fields")
		}
	}

	if req.Subtotal == nil || req.Shipping == nil || req.Total == nil {
		return utils.NewValidationError("Subtotal, shipping, and total are required")
	}

	for _, item := range req.Items {
		if !utils.ValidProductID(item.ProductID) {
			return utils.NewValidationError("Invalid product ID: %s", item.ProductID)
		}
		if strings.TrimSpace(item.Name) == "" {
			return utils.NewValidationError("Invalid item data: name, price, and quantity are required")
		}
		if item.Price < 0 || item.Quantity < 1 {
			return utils.NewValidationError("Item price must be non-negative and quantity must be at least 1")
		}
	}

	if err := s.validate.Struct(req); err != nil {
		if fieldErrs := utils.FieldErrors(err); fieldErrs != nil {
			return utils.NewValidationError("%s", utils.DescribeFieldErrors(fieldErrs))
		}
		return utils.NewValidationError("Invalid order data")
	}

	tax := decimal.Zero
	if req.Tax != nil {
		tax = decimal.NewFromFloat(*req.Tax)
	}
	expected := decimal.NewFromFloat(*req.Subtotal).Add(decimal.NewFromFloat(*req.Shipping)).Add(tax).Round(2)
	// Clients sum money in floats; compare at cent precision.
	if !expected.Equal(decimal.NewFromFloat(*req.Total).Round(2)) {
		return utils.NewValidationError("Total must equal subtotal + shipping + tax (expected %s)", expected.StringFixed(2))
	}
	return nil
}

func buildOrder(req models.CheckoutRequest, at time.Time) models.Order {
	c := req.Customer
	customer := models.Customer{
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Phone:     strings.TrimSpace(c.Phone),
		Address:   strings.TrimSpace(c.Address),
		City:      strings.TrimSpace(c.City),
		Province:  strings.TrimSpace(c.Province),
		Zip:       strings.TrimSpace(c.Zip),
		Country:   strings.TrimSpace(c.Country),
	}
	if customer.Country == "" {
		customer.Country = models.DefaultCountry
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      strings.TrimSpace(item.Name),
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	order := models.Order{
		Customer:       customer,
		Items:          items,
		Subtotal:       *req.Subtotal,
		Shipping:       *req.Shipping,
		Total:          *req.Total,
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  strings.TrimSpace(req.PaymentMethod),
		Status:         models.OrderStatusPending,
		Notes:          req.Notes,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	if req.Tax != nil {
		order.Tax = *req.Tax
	}
	if order.ShippingMethod == "" {
		order.ShippingMethod = models.ShippingInside
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentCashOnDelivery
	}
	return order
}

// Create validates a checkout, persists the order as pending and then tries
// to send the invoice. A failed invoice never fails the order.
func (s *OrderService) Create(ctx context.Context, req models.CheckoutRequest) (models.Order, error) {
	if err := s.checkCheckout(req); err != nil {
		return models.Order{}, err
	}

	order := buildOrder(req, s.now())
	if err := s.insertWithNumber(ctx, &order); err != nil {
		return models.Order{}, err
	}
	s.log.Info("order created", "orderNumber", order.OrderNumber, "orderId", order.ID.Hex(), "total", order.Total)

	if s.invoices != nil {
		// the order is committed; cancellation of the request must not cut the send short
		if !s.invoices.SendOrderInvoice(context.WithoutCancel(ctx), order) {
			s.log.Warn("order created but invoice email was not sent",
				"orderNumber", order.OrderNumber,
				"orderId", order.ID.Hex(),
				"recipient", order.Customer.Email,
			)
		}
	}
	return order, nil
}

func (s *OrderService) insertWithNumber(ctx context.Context, order *models.Order) error {
	var lastErr error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		seq, err := s.orders.NextOrderNumber(ctx)
		if err != nil {
			s.log.Error("failed to allocate order number", "error", err)
			return utils.Dependency("allocate order number", err)
		}
		order.OrderNumber = FormatOrderNumber(seq)

		err = s.orders.InsertOrder(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			s.log.Error("failed to save order", "orderNumber", order.OrderNumber, "error", err)
			return utils.Dependency("save order", err)
		}
		s.log.Warn("order number already taken, retrying", "orderNumber", order.OrderNumber)
		order.ID = primitive.NilObjectID
		lastErr = err
	}
	return utils.Dependency("save order", lastErr)
}

func parseOrderID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &utils.NotFoundError{Entity: "Order"}
	}
	return oid, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	oid, err := parseOrderID(id)
	if err != nil {
		return models.Order{}, err
	}

	order, err := s.orders.GetOrder(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, &utils.NotFoundError{Entity: "Order"}
	}
	if err != nil {
		s.log.Error("failed to fetch order", "orderId", id, "error", err)
		return models.Order{}, utils.Dependency("fetch order", err)
	}
	return order, nil
}

type OrderListParams struct {
	Status string
	Email  string
	Search string
	Page   int
	Limit  int
}

type OrderList struct {
	Orders     []models.Order
	Pagination models.Pagination
}

// List returns one page of orders, newest first. Status "all" or empty lists
// every status; an unknown status matches nothing.
func (s *OrderService) List(ctx context.Context, params OrderListParams) (OrderList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = DefaultOrderLimit
	}

	q := repository.OrderQuery{
		Email:  strings.ToLower(strings.TrimSpace(params.Email)),
		Search: strings.TrimSpace(params.Search),
	}
	if status := strings.TrimSpace(params.Status); status != "" && status != "all" {
		q.Statuses = []models.OrderStatus{models.OrderStatus(status)}
	}

	orders, err := s.orders.ListOrders(ctx, q, repository.Page{Number: params.Page, Limit: params.Limit})
	if err != nil {
		s.log.Error("failed to fetch orders", "error", err)
		return OrderList{}, utils.Dependency("fetch orders", err)
	}
	total, err := s.orders.CountOrders(ctx, q)
	if err != nil {
		s.log.Error("failed to count orders", "error", err)
		return OrderList{}, utils.Dependency("count orders", err)
	}

	return OrderList{
		Orders: orders,
		Pagination: models.Pagination{
			Total: total,
			Page:  params.Page,
			Limit: params.Limit,
			Pages: int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	}, nil
}

// Update applies a status and notes change. A status outside the known set is
// ignored rather than rejected, and any status may follow any other.
func (s *OrderService) Update(ctx context.Context, id string, req models.OrderUpdateRequest) (models.Order, error) {
	oid, err := parseOrderID(id)
	if err != nil {
		return models.Order{}, err
	}

	update := repository.OrderUpdate{Notes: req.Notes, UpdatedAt: s.now()}
	if req.Status != nil {
		status := models.OrderStatus(*req.Status)
		if status.Valid() {
			update.Status = &status
		} else if status != "" {
			s.log.Warn("ignoring unknown order status", "orderId", id, "status", string(status))
		}
	}

	order, err := s.orders.UpdateOrder(ctx, oid, update)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, &utils.NotFoundError{Entity: "Order"}
	}
	if err != nil {
		s.log.Error("failed to update order", "orderId", id, "error", err)
		return models.Order{}, utils.Dependency("update order", err)
	}
	s.log.Info("order updated", "orderNumber", order.OrderNumber, "status", string(order.Status))
	return order, nil
}
