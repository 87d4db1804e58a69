package di

import (
	"github.com/wasin-t/eventbook/internal/gateway"
	"github.com/wasin-t/eventbook/internal/handler"
	"github.com/wasin-t/eventbook/internal/repository"
	"github.com/wasin-t/eventbook/internal/service"
	"github.com/wasin-t/eventbook/pkg/config"
	"github.com/wasin-t/eventbook/pkg/database"
	"github.com/wasin-t/eventbook/pkg/redis"
)

// Container holds all wired dependencies
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	EventRepo   repository.EventRepository
	BookingRepo repository.BookingRepository
	BookingLock repository.BookingLock

	// External
	PaymentGateway gateway.PaymentGateway
	Notifier       service.Notifier

	// Services
	EventService   service.EventService
	BookingService service.BookingService
	TicketService  service.TicketService

	// Handlers
	EventHandler   *handler.EventHandler
	BookingHandler *handler.BookingHandler
	TicketHandler  *handler.TicketHandler
	WebhookHandler *handler.WebhookHandler
	HealthHandler  *handler.HealthHandler
}

// ContainerConfig contains the pieces built in main
type ContainerConfig struct {
	Config         *config.Config
	DB             *database.PostgresDB
	Redis          *redis.Client
	PaymentGateway gateway.PaymentGateway
	Notifier       service.Notifier
}

// NewContainer wires repositories, services and handlers together
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		PaymentGateway: cfg.PaymentGateway,
		Notifier:       cfg.Notifier,
	}

	c.EventRepo = repository.NewPostgresEventRepository(cfg.DB.Pool())
	c.BookingRepo = repository.NewPostgresBookingRepository(cfg.DB.Pool())
	c.BookingLock = repository.NewRedisBookingLock(cfg.Redis)

	c.EventService = service.NewEventService(c.EventRepo)
	c.BookingService = service.NewBookingService(
		c.BookingRepo,
		c.EventRepo,
		c.BookingLock,
		c.PaymentGateway,
		c.Notifier,
		&service.BookingServiceConfig{
			Currency:                cfg.Config.Booking.Currency,
			CancellationWindowHours: cfg.Config.Booking.CancellationWindowHours,
		},
	)
	c.TicketService = service.NewTicketService(c.BookingRepo, c.EventRepo)

	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)
	c.TicketHandler = handler.NewTicketHandler(c.TicketService)
	c.WebhookHandler = handler.NewWebhookHandler(c.BookingService, c.PaymentGateway)
	c.HealthHandler = handler.NewHealthHandler(cfg.DB, cfg.Redis, cfg.Config.App.Name, cfg.Config.App.Version)

	return c
}
