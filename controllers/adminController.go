package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (c *Controller) GetDashboardStats(ctx *gin.Context) {
	stats, err := c.Stats.Dashboard(ctx.Request.Context())
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch dashboard statistics")
		return
	}
	sendSuccess(ctx, http.StatusOK, stats, nil)
}

func sampleOrder(email string, at time.Time) models.Order {
	items := []models.OrderItem{
		{ProductID: "sample-1", Name: "Sample Product", Price: 1000, Quantity: 2},
	}
	return models.Order{
		ID:          primitive.NewObjectID(),
		OrderNumber: "ORD-000001",
		Customer: models.Customer{
			Email:     email,
			FirstName: "Test",
			LastName:  "Customer",
			Phone:     "01700000000",
			Address:   "House 1, Road 1",
			City:      "Dhaka",
			Province:  "Dhaka",
			Zip:       "1200",
			Country:   models.DefaultCountry,
		},
		Items:          items,
		Subtotal:       2000,
		Shipping:       models.ShippingInsidePrice,
		Total:          2000 + models.ShippingInsidePrice,
		ShippingMethod: models.ShippingInside,
		PaymentMethod:  models.PaymentCashOnDelivery,
		Status:         models.OrderStatusPending,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

// SendTestEmail mails a sample invoice to the given address.
func (c *Controller) SendTestEmail(ctx *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Email is required")
		return
	}

	if c.Invoices == nil || !c.Invoices.SendOrderInvoice(ctx.Request.Context(), sampleOrder(strings.TrimSpace(body.Email), time.Now().UTC())) {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to send test email")
		return
	}
	sendSuccess(ctx, http.StatusOK, nil, gin.H{"message": "Test email sent successfully"})
}
