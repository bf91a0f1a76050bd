package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/joeyave/campus-hub/service"
)

type MessageController struct {
	NotificationService *service.NotificationService
}

func (h *MessageController) Send(ctx *gin.Context) {
	var msg entity.EmailMessage
	if !bindJSON(ctx, &msg) {
		return
	}

	delivery, err := h.NotificationService.Send(ctx.Request.Context(), msg)
	if err != nil {
		var verr *helpers.ValidationError
		if errors.As(err, &verr) || errors.Is(err, service.ErrEmailNotConfigured) {
			abortWithError(ctx, err, "Email is not configured")
			return
		}
		abortWithStatus(ctx, http.StatusBadGateway, err, "Failed to send email")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent", "delivery": delivery})
}
