package routes

import (
	"github.com/Kariqs/tannaro-api/controllers"
	"github.com/Kariqs/tannaro-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, c *controllers.Controller, requireAdmin gin.HandlerFunc) {
	auth := server.Group("/api/auth")
	{
		auth.POST("/register", c.Register)
		auth.POST("/login", c.Login)
	}

	users := server.Group("/api/users")
	{
		users.GET("/profile", c.GetProfile)
		users.PUT("/profile", c.UpdateProfile)
	}

	admin := server.Group("/api/admin/auth")
	{
		if c.Limiter != nil {
			admin.POST("/login", middlewares.LoginRateLimit(c.Limiter, c.Limiter.Window), c.AdminLogin)
		} else {
			admin.POST("/login", c.AdminLogin)
		}
		admin.GET("/verify", requireAdmin, c.AdminVerify)
		admin.POST("/logout", c.AdminLogout)
	}
}

func AdminRoutes(server *gin.Engine, c *controllers.Controller, requireAdmin gin.HandlerFunc) {
	admin := server.Group("/api/admin", requireAdmin)
	{
		admin.GET("/stats", c.GetDashboardStats)
		admin.GET("/users", c.GetUsers)
		admin.POST("/test-email", c.SendTestEmail)
	}
}
