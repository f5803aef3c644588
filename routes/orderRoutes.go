package routes

import (
	"github.com/Kariqs/tannaro-api/controllers"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, c *controllers.Controller, requireAdmin gin.HandlerFunc) {
	orders := server.Group("/api/orders")
	{
		orders.POST("", c.CreateOrder)
		orders.GET("", c.GetOrders)
		orders.GET("/:id", c.GetOrder)
		orders.PUT("/:id", requireAdmin, c.UpdateOrder)
	}
}
