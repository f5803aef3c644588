package routes

import (
	"github.com/Kariqs/tannaro-api/controllers"
	"github.com/Kariqs/tannaro-api/middlewares"
	"github.com/gin-gonic/gin"
)

// Register mounts every resource on server.
func Register(server *gin.Engine, c *controllers.Controller) {
	requireAdmin := middlewares.RequireAdmin(c.Auth)

	DefaultRoutes(server, c)
	OrderRoutes(server, c, requireAdmin)
	ProductRoutes(server, c, requireAdmin)
	CategoryRoutes(server, c, requireAdmin)
	CartRoutes(server, c)
	AuthRoutes(server, c, requireAdmin)
	AdminRoutes(server, c, requireAdmin)
}
