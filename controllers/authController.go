package controllers

import (
	"net/http"

	"github.com/Kariqs/tannaro-api/middlewares"
	"github.com/Kariqs/tannaro-api/models"
	"github.com/gin-gonic/gin"
)

const adminCookieName = "adminToken"

func publicUser(user models.User) gin.H {
	return gin.H{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}

// Register handles shopper account creation
func (c *Controller) Register(ctx *gin.Context) {
	var data models.RegisterData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := c.Auth.Register(ctx.Request.Context(), data)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to register user")
		return
	}
	sendSuccess(ctx, http.StatusCreated, publicUser(user), gin.H{"message": "User registered successfully"})
}

// Login handles shopper authentication
func (c *Controller) Login(ctx *gin.Context) {
	var data models.LoginData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := c.Auth.Login(ctx.Request.Context(), data)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to login")
		return
	}
	sendSuccess(ctx, http.StatusOK, publicUser(user), gin.H{"message": "Login successful"})
}

// AdminLogin issues the admin session cookie. The rate limit counter for the
// caller is cleared on success.
func (c *Controller) AdminLogin(ctx *gin.Context) {
	var data models.LoginData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, token, err := c.Auth.AdminLogin(ctx.Request.Context(), data)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to login")
		return
	}

	if c.Limiter != nil {
		if key := ctx.GetString(middlewares.RateLimitKey); key != "" {
			c.Limiter.Reset(ctx.Request.Context(), key)
		}
	}

	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(adminCookieName, token, int(c.Auth.TokenTTL().Seconds()), "/", "", c.Production, true)
	sendSuccess(ctx, http.StatusOK, nil, gin.H{"message": "Login successful", "user": publicUser(user)})
}

func (c *Controller) AdminVerify(ctx *gin.Context) {
	user, ok := ctx.Get(middlewares.AdminKey)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sendSuccess(ctx, http.StatusOK, nil, gin.H{"user": publicUser(user.(models.User))})
}

func (c *Controller) AdminLogout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(adminCookieName, "", -1, "/", "", c.Production, true)
	sendSuccess(ctx, http.StatusOK, nil, gin.H{"message": "Logged out successfully"})
}
