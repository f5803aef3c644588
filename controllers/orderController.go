package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/services"
	"github.com/gin-gonic/gin"
)

func (c *Controller) CreateOrder(ctx *gin.Context) {
	var checkout models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&checkout); err != nil {
		c.logger().Warn("JSON binding error", "error", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := c.Orders.Create(ctx.Request.Context(), checkout)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to create order")
		return
	}

	sendSuccess(ctx, http.StatusCreated, order, gin.H{"message": "Order created successfully"})
}

func (c *Controller) GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(services.DefaultOrderLimit)))

	list, err := c.Orders.List(ctx.Request.Context(), services.OrderListParams{
		Status: ctx.Query("status"),
		Email:  ctx.Query("email"),
		Search: ctx.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch orders")
		return
	}

	sendSuccess(ctx, http.StatusOK, list.Orders, gin.H{"pagination": list.Pagination})
}

func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.Orders.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch order")
		return
	}
	sendSuccess(ctx, http.StatusOK, order, nil)
}

func (c *Controller) UpdateOrder(ctx *gin.Context) {
	var update models.OrderUpdateRequest
	if err := ctx.ShouldBindJSON(&update); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := c.Orders.Update(ctx.Request.Context(), ctx.Param("id"), update)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to update order")
		return
	}
	sendSuccess(ctx, http.StatusOK, order, gin.H{"message": "Order updated successfully"})
}
