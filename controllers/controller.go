package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kariqs/tannaro-api/repository"
	"github.com/Kariqs/tannaro-api/services"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidInput        = "Invalid request body"
	msgInternalServerError = "Internal server error"
)

// Controller holds the services behind the HTTP handlers.
type Controller struct {
	Orders   *services.OrderService
	Stats    *services.StatsService
	Catalog  *services.CatalogService
	Auth     *services.AuthService
	Users    *services.UserService
	Limiter  *services.LoginLimiter
	Invoices services.InvoiceSender
	Images   utils.ImageStore
	Store    utils.StoreInfo

	// Production hides error details from responses and marks cookies secure.
	Production bool
	Log        *slog.Logger
}

func (c *Controller) logger() *slog.Logger {
	if c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

// sendSuccess writes {success: true, data, ...extra}.
func sendSuccess(ctx *gin.Context, status int, data any, extra gin.H) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	for k, v := range extra {
		body[k] = v
	}
	sendJSONResponse(ctx, status, body)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"success": false, "error": message})
}

// statusFor maps the error taxonomy onto HTTP and reports whether the message
// is safe to show as is.
func statusFor(err error) (int, bool) {
	var (
		validation *utils.ValidationError
		notFound   *utils.NotFoundError
		auth       *utils.AuthenticationError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, true
	case errors.As(err, &notFound):
		return http.StatusNotFound, true
	case errors.As(err, &auth):
		return http.StatusUnauthorized, true
	case errors.Is(err, utils.ErrRateLimited):
		return http.StatusTooManyRequests, true
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusBadRequest, false
	}
	return http.StatusInternalServerError, false
}

// respondWithError surfaces validation, lookup and auth failures verbatim. Anything
// else is answered with the generic message, plus details outside production.
func (c *Controller) respondWithError(ctx *gin.Context, err error, message string) {
	status, verbatim := statusFor(err)
	if verbatim {
		sendErrorResponse(ctx, status, err.Error())
		return
	}

	body := gin.H{"success": false, "error": message}
	if !c.Production {
		body["details"] = err.Error()
	}
	if status == http.StatusInternalServerError {
		c.logger().Error(message, "path", ctx.FullPath(), "error", err)
	}
	sendJSONResponse(ctx, status, body)
}
