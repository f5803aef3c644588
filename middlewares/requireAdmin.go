package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/gin-gonic/gin"
)

// AdminKey is the context key holding the verified models.User.
const AdminKey = "admin"

const adminCookieName = "adminToken"

type AdminVerifier interface {
	VerifyAdmin(ctx context.Context, token string) (models.User, error)
}

func adminToken(ctx *gin.Context) string {
	if token, err := ctx.Cookie(adminCookieName); err == nil && token != "" {
		return token
	}
	if header := ctx.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// RequireAdmin accepts the session cookie or a bearer token and aborts with
// 401 unless it resolves to a current admin account.
func RequireAdmin(auth AdminVerifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := auth.VerifyAdmin(ctx.Request.Context(), adminToken(ctx))
		if err != nil {
			if !utils.IsAuthentication(err) {
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
				return
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}

		ctx.Set(AdminKey, user)
		ctx.Next()
	}
}
