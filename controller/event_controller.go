package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/service"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type EventController struct {
	EventService        *service.EventService
	NotificationService *service.NotificationService
	CommunityService    *service.CommunityService
}

func placementSuffix(p service.Placement) string {
	switch p {
	case service.PlacedInFallback:
		return " (mock data)"
	case service.PlacedInFallbackOnError:
		return " (fallback to mock data)"
	}
	return ""
}

func (h *EventController) List(ctx *gin.Context) {
	events, err := h.EventService.ListEvents(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err, "Failed to fetch events")
		return
	}
	ctx.JSON(http.StatusOK, events)
}

func (h *EventController) Search(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	events, err := h.EventService.SearchEvents(ctx.Request.Context(), q)
	if err != nil {
		abortWithError(ctx, err, "Failed to search events")
		return
	}
	ctx.JSON(http.StatusOK, events)
}

func (h *EventController) AdminStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.CommunityService.EventStats())
}

func (h *EventController) Get(ctx *gin.Context) {
	event, err := h.EventService.GetEvent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err, "Failed to fetch event")
		return
	}
	ctx.JSON(http.StatusOK, event)
}

func (h *EventController) Create(ctx *gin.Context) {
	var input service.CreateEventInput
	if !bindJSON(ctx, &input) {
		return
	}

	event, placement, err := h.EventService.CreateEvent(ctx.Request.Context(), input)
	if err != nil {
		abortWithError(ctx, err, "Failed to create event")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully" + placementSuffix(placement),
		"event":   event,
	})
}

func (h *EventController) Update(ctx *gin.Context) {
	var patch entity.EventPatch
	if !bindJSON(ctx, &patch) {
		return
	}

	event, err := h.EventService.UpdateEvent(ctx.Request.Context(), ctx.Param("id"), patch)
	if err != nil {
		abortWithError(ctx, err, "Failed to update event")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Event updated successfully", "event": event})
}

func (h *EventController) Delete(ctx *gin.Context) {
	err := h.EventService.DeleteEvent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err, "Failed to delete event")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

func (h *EventController) Registrations(ctx *gin.Context) {
	var filter entity.RegistrationFilter
	if err := decoder.Decode(&filter, ctx.Request.URL.Query()); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registrations, err := h.EventService.ListRegistrationsForEvent(ctx.Request.Context(), ctx.Param("id"), filter.Status)
	if err != nil {
		abortWithError(ctx, err, "Failed to fetch registrations")
		return
	}
	ctx.JSON(http.StatusOK, registrations)
}

func (h *EventController) AllRegistrations(ctx *gin.Context) {
	var filter entity.RegistrationFilter
	if err := decoder.Decode(&filter, ctx.Request.URL.Query()); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registrations, err := h.EventService.ListAllRegistrations(ctx.Request.Context(), filter.Status)
	if err != nil {
		abortWithError(ctx, err, "Failed to fetch registrations")
		return
	}
	ctx.JSON(http.StatusOK, registrations)
}

func (h *EventController) Register(ctx *gin.Context) {
	var input service.RegistrationInput
	if !bindJSON(ctx, &input) {
		return
	}

	registration, placement, err := h.EventService.RegisterForEvent(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		abortWithError(ctx, err, "Failed to register for event")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":        "Registration successful" + placementSuffix(placement),
		"registrationId": registration.ID,
	})
}

func (h *EventController) UpdateRegistrationStatus(ctx *gin.Context) {
	var body struct {
		Status entity.RegistrationStatus `json:"status"`
	}
	if !bindJSON(ctx, &body) {
		return
	}

	registration, err := h.EventService.UpdateRegistrationStatus(ctx.Request.Context(), ctx.Param("registrationId"), body.Status)
	if err != nil {
		abortWithError(ctx, err, "Failed to update registration status")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Registration status updated", "registration": registration})
}

func (h *EventController) Broadcast(ctx *gin.Context) {
	var input service.BroadcastInput
	if !bindJSON(ctx, &input) {
		return
	}

	result, err := h.NotificationService.Broadcast(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		abortWithError(ctx, err, "Failed to send broadcast")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (h *EventController) Health(ctx *gin.Context) {
	store := "mongodb"
	if !h.EventService.StoreConnected(ctx.Request.Context()) {
		store = "fallback"
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "store": store})
}
