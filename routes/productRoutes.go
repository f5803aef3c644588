package routes

import (
	"github.com/Kariqs/tannaro-api/controllers"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine, c *controllers.Controller, requireAdmin gin.HandlerFunc) {
	products := server.Group("/api/products")
	{
		products.GET("", c.GetProducts)
		products.GET("/:id", c.GetProduct)
		products.POST("", requireAdmin, c.CreateProduct)
		products.PUT("/:id", requireAdmin, c.UpdateProduct)
		products.DELETE("/:id", requireAdmin, c.DeleteProduct)
	}
	server.POST("/api/upload", requireAdmin, c.UploadProductImage)
}

func CategoryRoutes(server *gin.Engine, c *controllers.Controller, requireAdmin gin.HandlerFunc) {
	categories := server.Group("/api/categories")
	{
		categories.GET("", c.GetCategories)
		categories.GET("/:id", c.GetCategory)
		categories.POST("", requireAdmin, c.CreateCategory)
		categories.PUT("/:id", requireAdmin, c.UpdateCategory)
		categories.DELETE("/:id", requireAdmin, c.DeleteCategory)

		categories.GET("/:id/products", c.GetCategoryProducts)
		categories.POST("/:id/products", requireAdmin, c.AddCategoryProducts)
		categories.DELETE("/:id/products", requireAdmin, c.RemoveCategoryProducts)
	}
}
