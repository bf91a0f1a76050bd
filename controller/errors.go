package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/joeyave/campus-hub/service"
	"github.com/rs/zerolog"
)

// abortWithError writes the response for err. fallback is the message for
// unexpected failures, which are logged and never shown to the client.
func abortWithError(ctx *gin.Context, err error, fallback string) {
	var verr *helpers.ValidationError
	var conflict *service.ConflictError
	var notFound *service.NotFoundError

	switch {
	case errors.As(err, &verr):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.As(err, &conflict):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": conflict.Reason})
	case errors.As(err, &notFound):
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, service.ErrInvalidStatus):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
	case errors.Is(err, service.ErrEmailNotConfigured), errors.Is(err, service.ErrPaymentNotConfigured):
		abortWithStatus(ctx, http.StatusServiceUnavailable, err, fallback)
	default:
		abortWithStatus(ctx, http.StatusInternalServerError, err, fallback)
	}
}

func abortWithStatus(ctx *gin.Context, status int, err error, msg string) {
	zerolog.Ctx(ctx.Request.Context()).Error().Err(err).Int("status", status).Msg(msg)
	ctx.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bindJSON decodes the body into v. A malformed body is reported like a failed validation.
func bindJSON(ctx *gin.Context, v any) bool {
	if err := ctx.ShouldBindJSON(v); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": []helpers.FieldError{
			{Field: "body", Message: "Request body must be valid JSON"},
		}})
		return false
	}
	return true
}
