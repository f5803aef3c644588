package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/tannaro-api/services"
	"github.com/gin-gonic/gin"
)

func (c *Controller) GetProfile(ctx *gin.Context) {
	user, err := c.Users.Profile(ctx.Request.Context(), ctx.Query("email"))
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch user profile")
		return
	}
	sendSuccess(ctx, http.StatusOK, user, nil)
}

func (c *Controller) UpdateProfile(ctx *gin.Context) {
	var update services.ProfileUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := c.Users.UpdateProfile(ctx.Request.Context(), update)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to update user profile")
		return
	}
	sendSuccess(ctx, http.StatusOK, user, gin.H{"message": "Profile updated successfully"})
}

func (c *Controller) GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(services.DefaultUserLimit)))

	list, err := c.Users.List(ctx.Request.Context(), services.UserListParams{
		Search: ctx.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch users")
		return
	}
	sendSuccess(ctx, http.StatusOK, list.Users, gin.H{"pagination": list.Pagination})
}
