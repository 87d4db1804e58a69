package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/wasin-t/eventbook/internal/dto"
	"github.com/wasin-t/eventbook/internal/service"
	"github.com/wasin-t/eventbook/pkg/response"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TicketHandler handles ticket issuance and verification HTTP requests
type TicketHandler struct {
	ticketService service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Issue handles POST /bookings/:id/ticket
func (h *TicketHandler) Issue(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.issue")
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

	ticket, err := h.ticketService.IssueTicket(ctx, bookingID, customerEmail)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetAttributes(attribute.String("ticket_id", ticket.TicketID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, ticket)
}

// Verify handles POST /tickets/verify. No authentication: gate scanners hit
// this endpoint.
func (h *TicketHandler) Verify(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.verify")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.VerifyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.ticketService.VerifyTicket(ctx, req.Payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
