package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wasin-t/eventbook/internal/dto"
	"github.com/wasin-t/eventbook/internal/service"
	"github.com/wasin-t/eventbook/pkg/response"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BookingHandler handles booking lifecycle HTTP requests
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /events/:id/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	customerEmail := c.GetString("user_email")
	customerName := c.GetString("user_name")
	if customerEmail == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	eventID := c.Param("id")

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.Int("quantity", req.Quantity),
	)

	result, err := h.bookingService.CreateBooking(ctx, customerName, customerEmail, eventID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetAttributes(attribute.String("booking_id", result.Booking.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// Cancel handles DELETE /bookings/:id
func (h *BookingHandler) Cancel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	customerEmail := c.GetString("user_email")
	if customerEmail == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	bookingID := c.Param("id")
	span.SetAttributes(attribute.String("booking_id", bookingID))

	result, err := h.bookingService.CancelBooking(ctx, bookingID, customerEmail)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Get handles GET /bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	customerEmail := c.GetString("user_email")
	if customerEmail == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	bookingID := c.Param("id")
	span.SetAttributes(attribute.String("booking_id", bookingID))

	booking, err := h.bookingService.GetBooking(ctx, bookingID, customerEmail)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, booking)
}

// List handles GET /bookings
func (h *BookingHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	customerEmail := c.GetString("user_email")
	if customerEmail == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.bookingService.GetCustomerBookings(ctx, customerEmail, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
