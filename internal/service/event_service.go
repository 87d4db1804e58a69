package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wasin-t/eventbook/internal/domain"
	"github.com/wasin-t/eventbook/internal/dto"
	"github.com/wasin-t/eventbook/internal/repository"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// EventService defines the interface for event catalog business logic
type EventService interface {
	// CreateEvent creates an event owned by the organizer
	CreateEvent(ctx context.Context, organizerEmail string, req *dto.CreateEventRequest) (*dto.EventResponse, error)

	// GetEvent retrieves a single event
	GetEvent(ctx context.Context, id string) (*dto.EventResponse, error)

	// ListEvents retrieves a page of events with optional title/location search
	ListEvents(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error)

	// UpdateEvent updates an event. Only the organizer may update it.
	UpdateEvent(ctx context.Context, id, organizerEmail string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)

	// DeleteEvent deletes an event. Only the organizer may delete it.
	DeleteEvent(ctx context.Context, id, organizerEmail string) error
}

// eventService implements EventService
type eventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

// CreateEvent creates an event owned by the organizer
func (s *eventService) CreateEvent(ctx context.Context, organizerEmail string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	if req == nil {
		span.SetStatus(codes.Error, "invalid title")
		return nil, domain.ErrInvalidTitle
	}

	now := time.Now()
	event := &domain.Event{
		ID:             uuid.New().String(),
		OrganizerEmail: organizerEmail,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Date:           req.Date,
		Price:          req.Price,
		Capacity:       req.Capacity,
		Attendees:      0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := event.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("event_id", event.ID),
		attribute.String("organizer", organizerEmail),
	)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.EventFromDomain(event), nil
}

// GetEvent retrieves a single event
func (s *eventService) GetEvent(ctx context.Context, id string) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()

	if id == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}
	span.SetAttributes(attribute.String("event_id", id))

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.EventFromDomain(event), nil
}

// ListEvents retrieves a page of events
func (s *eventService) ListEvents(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	span.SetAttributes(
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	)

	events, hasMore, err := s.eventRepo.List(ctx, repository.EventFilter{
		Search:   search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses := make([]*dto.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, dto.EventFromDomain(event))
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return &dto.PaginatedResponse{
		Data:     responses,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

// UpdateEvent updates an event after ownership and capacity checks
func (s *eventService) UpdateEvent(ctx context.Context, id, organizerEmail string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.update")
	defer span.End()

	if id == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}
	span.SetAttributes(attribute.String("event_id", id))

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !event.IsOrganizedBy(organizerEmail) {
		span.SetStatus(codes.Error, "forbidden")
		return nil, domain.ErrForbidden
	}

	// Capacity can never drop below seats already claimed. Unlimited (0)
	// stays allowed regardless of the attendee count.
	if req.Capacity != domain.CapacityUnlimited && req.Capacity < event.Attendees {
		span.SetStatus(codes.Error, "capacity below claims")
		return nil, domain.ErrCapacityBelowClaims
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.Date = req.Date
	event.Price = req.Price
	event.Capacity = req.Capacity

	if err := event.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.EventFromDomain(event), nil
}

// DeleteEvent deletes an event after an ownership check
func (s *eventService) DeleteEvent(ctx context.Context, id, organizerEmail string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.event.delete")
	defer span.End()

	if id == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return domain.ErrInvalidEventID
	}
	span.SetAttributes(attribute.String("event_id", id))

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if !event.IsOrganizedBy(organizerEmail) {
		span.SetStatus(codes.Error, "forbidden")
		return domain.ErrForbidden
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
