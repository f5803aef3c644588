package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (c *Controller) GetHome(ctx *gin.Context) {
	message := `Welcome to ` + c.storeName() + ` API. The following are the endpoints for this API:

ORDERS
- POST "/api/orders" - Place an order (cash on delivery)
- GET "/api/orders" - List orders (status, email, search, page, limit)
- GET "/api/orders/:id" - Get order by ID
- PUT "/api/orders/:id" - Update order status or notes (admin)

CATALOG
- GET "/api/products" - List products (admin, status, category, featured, limit)
- GET "/api/products/:id" - Get product by ID
- POST|PUT|DELETE "/api/products" - Manage products (admin)
- GET "/api/categories" - List categories
- GET "/api/categories/:id/products" - Products in a category
- POST "/api/upload" - Upload a product image (admin)

CART
- POST "/api/cart/quote" - Price a cart

USERS
- POST "/api/auth/register" - Create user account
- POST "/api/auth/login" - Access user account
- GET "/api/users/profile" - Get user profile

ADMIN
- POST "/api/admin/auth/login" - Admin login
- GET "/api/admin/auth/verify" - Verify admin session
- POST "/api/admin/auth/logout" - Admin logout
- GET "/api/admin/stats" - Dashboard statistics
- GET "/api/admin/users" - List users
- POST "/api/admin/test-email" - Send a sample invoice`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func (c *Controller) GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (c *Controller) storeName() string {
	if c.Store.Name == "" {
		return "TANNARO"
	}
	return c.Store.Name
}
