package services

import (
	"amiasbakery_server/database"
	"amiasbakery_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	EmailService    *EmailService
	CacheService    *CacheService
	HealthService   *HealthService
	CatalogService  *CatalogService
	OrderService    *OrderService
	PaymentService  *PaymentService
	CheckoutService *CheckoutService
	WebhookService  *WebhookService
	SweeperService  *SweeperService
	EventsService   *EventsService
}

// NewServiceManager wires the services. Catalog reads go through the
// read-only handle, everything that writes uses the privileged one.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db database.Handles, cacheService *CacheService) *ServiceManager {
	eventsService := NewEventsService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	catalogService := NewCatalogService(logger, db.Reader, cacheService)
	orderService := NewOrderService(logger, cfg, db.Writer, eventsService)
	paymentService := NewPaymentService(logger, cfg)
	validator := NewCheckoutValidator(logger, catalogService)
	checkoutService := NewCheckoutService(logger, cfg, validator, orderService, paymentService)
	webhookService := NewWebhookService(logger, cfg, orderService, emailService)
	sweeperService := NewSweeperService(logger, cfg, orderService)

	return &ServiceManager{
		EmailService:    emailService,
		CacheService:    cacheService,
		HealthService:   healthService,
		CatalogService:  catalogService,
		OrderService:    orderService,
		PaymentService:  paymentService,
		CheckoutService: checkoutService,
		WebhookService:  webhookService,
		SweeperService:  sweeperService,
		EventsService:   eventsService,
	}
}
