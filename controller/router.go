package controller

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type Router struct {
	Event     *EventController
	Community *CommunityController
	Message   *MessageController
	Payment   *PaymentController
	Health    gin.HandlerFunc
	StaticDir string
}

func (r *Router) Register(engine *gin.Engine) {
	engine.GET("/healthz", r.Health)

	events := engine.Group("/api/events")
	{
		events.GET("", r.Event.List)
		events.GET("/search", r.Event.Search)
		events.GET("/admin-stats", r.Event.AdminStats)
		events.GET("/admin/all-registrations", r.Event.AllRegistrations)
		events.PUT("/registrations/:registrationId/status", r.Event.UpdateRegistrationStatus)
		events.GET("/:id", r.Event.Get)
		events.POST("", r.Event.Create)
		events.PUT("/:id", r.Event.Update)
		events.DELETE("/:id", r.Event.Delete)
		events.GET("/:id/registrations", r.Event.Registrations)
		events.POST("/:id/register", r.Event.Register)
		events.POST("/:id/broadcast", r.Event.Broadcast)
	}

	api := engine.Group("/api")
	{
		api.GET("/committees", r.Community.Committees)
		api.GET("/profile", r.Community.Profile)
		api.GET("/badges", r.Community.Badges)
		api.POST("/admin/award-badge", r.Community.AwardBadge)
		api.GET("/admin/user-badges/:userId", r.Community.UserBadges)
		api.GET("/admin/dashboard-stats", r.Community.DashboardStats)

		api.GET("/messages/admin-stats", r.Community.MessageStats)
		api.POST("/messages/send", r.Message.Send)
	}

	payment := engine.Group("/api/payment")
	{
		payment.GET("/plans", r.Payment.Plans)
		payment.GET("/plans/:planId", r.Payment.Plan)
		payment.POST("/create-checkout-session", r.Payment.CreateCheckoutSession)
		payment.POST("/webhook", r.Payment.Webhook)
		payment.GET("/subscription/:userId", r.Payment.Subscription)
		payment.POST("/cancel-subscription", r.Payment.CancelSubscription)
	}

	engine.Static("/uploads", filepath.Join(r.StaticDir, "uploads"))
	engine.StaticFile("/admin", filepath.Join(r.StaticDir, "admin.html"))
	engine.NoRoute(r.static)
}

// static serves files from StaticDir and answers everything else with the login page.
func (r *Router) static(ctx *gin.Context) {
	if ctx.Request.Method == http.MethodGet || ctx.Request.Method == http.MethodHead {
		name := path.Clean("/" + ctx.Request.URL.Path)
		file := filepath.Join(r.StaticDir, filepath.FromSlash(name))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			ctx.File(file)
			return
		}
	}
	ctx.File(filepath.Join(r.StaticDir, "login.html"))
}
