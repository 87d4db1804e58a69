package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wasin-t/eventbook/internal/dto"
	"github.com/wasin-t/eventbook/internal/service"
	"github.com/wasin-t/eventbook/pkg/response"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EventHandler handles event catalog HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /events
func (h *EventHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	organizerEmail := c.GetString("user_email")
	if organizerEmail == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(attribute.String("organizer", organizerEmail))

	event, err := h.eventService.CreateEvent(ctx, organizerEmail, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Created(c, event)
}

// Get handles GET /events/:id
func (h *EventHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("event_id", id))

	event, err := h.eventService.GetEvent(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, event)
}

// List handles GET /events
func (h *EventHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	search := c.Query("search")

	result, err := h.eventService.ListEvents(ctx, search, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// Update handles PUT /events/:id
func (h *EventHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	organizerEmail := c.GetString("user_email")
	if organizerEmail == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	id := c.Param("id")
	span.SetAttributes(attribute.String("event_id", id))

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(ctx, id, organizerEmail, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, event)
}

// Delete handles DELETE /events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	organizerEmail := c.GetString("user_email")
	if organizerEmail == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	id := c.Param("id")
	span.SetAttributes(attribute.String("event_id", id))

	if err := h.eventService.DeleteEvent(ctx, id, organizerEmail); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.Status(http.StatusNoContent)
}
