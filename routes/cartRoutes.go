package routes

import (
	"github.com/Kariqs/tannaro-api/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, c *controllers.Controller) {
	server.POST("/api/cart/quote", c.QuoteCart)
}
