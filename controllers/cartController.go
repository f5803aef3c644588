package controllers

import (
	"net/http"

	"github.com/Kariqs/tannaro-api/cart"
	"github.com/Kariqs/tannaro-api/models"
	"github.com/gin-gonic/gin"
)

// QuoteCart prices a posted cart the same way the checkout client does. Nothing is stored.
func (c *Controller) QuoteCart(ctx *gin.Context) {
	var req models.CartQuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger().Warn("cart quote binding error", "error", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Cart items are required")
		return
	}
	sendSuccess(ctx, http.StatusOK, cart.Quote(req.Items, req.ShippingMethod), nil)
}
