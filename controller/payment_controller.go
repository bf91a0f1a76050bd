package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/joeyave/campus-hub/service"
	"github.com/rs/zerolog"
)

type PaymentController struct {
	PaymentService *service.PaymentService
	// PublicURL overrides the scheme and host taken from the request.
	PublicURL string
}

func paymentError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

func (h *PaymentController) baseURL(ctx *gin.Context) string {
	if h.PublicURL != "" {
		return h.PublicURL
	}
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + ctx.Request.Host
}

func (h *PaymentController) Plans(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "plans": h.PaymentService.Plans()})
}

func (h *PaymentController) Plan(ctx *gin.Context) {
	plan, err := h.PaymentService.FindPlan(ctx.Param("planId"))
	if err != nil {
		paymentError(ctx, http.StatusNotFound, "Plan not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "plan": plan})
}

func (h *PaymentController) CreateCheckoutSession(ctx *gin.Context) {
	var input service.CheckoutInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		paymentError(ctx, http.StatusBadRequest, "Invalid plan selected")
		return
	}

	session, err := h.PaymentService.Checkout(ctx.Request.Context(), h.baseURL(ctx), input)
	if errors.Is(err, service.ErrInvalidPlan) {
		paymentError(ctx, http.StatusBadRequest, "Invalid plan selected")
		return
	}
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Payment processing failed",
			"error":   err.Error(),
		})
		return
	}

	if session.RedirectURL != "" {
		ctx.JSON(http.StatusOK, gin.H{"success": true, "redirectUrl": session.RedirectURL})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "sessionId": session.ID, "url": session.URL})
}

func (h *PaymentController) Webhook(ctx *gin.Context) {
	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	_, err = h.PaymentService.HandleWebhook(ctx.Request.Context(), payload, ctx.GetHeader("Stripe-Signature"))
	if err != nil {
		zerolog.Ctx(ctx.Request.Context()).Warn().Err(err).Msg("Webhook signature verification failed")
		ctx.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentController) Subscription(ctx *gin.Context) {
	subscription := h.PaymentService.SubscriptionStatus(ctx.Request.Context(), ctx.Param("userId"))
	ctx.JSON(http.StatusOK, gin.H{"success": true, "subscription": subscription})
}

func (h *PaymentController) CancelSubscription(ctx *gin.Context) {
	var input service.CancelInput
	_ = ctx.ShouldBindJSON(&input)

	subscription, err := h.PaymentService.CancelSubscription(ctx.Request.Context(), input)
	var verr *helpers.ValidationError
	switch {
	case errors.As(err, &verr):
		paymentError(ctx, http.StatusBadRequest, "Subscription ID required")
		return
	case err != nil:
		paymentError(ctx, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Subscription will be cancelled at the end of the current period",
		"subscription": subscription,
	})
}
