package api

import (
	"amiasbakery_server/api/admin"
	"amiasbakery_server/api/checkout"
	"amiasbakery_server/api/debug"
	"amiasbakery_server/api/health"
	"amiasbakery_server/api/menu"
	"amiasbakery_server/api/middleware"
	"amiasbakery_server/api/webhook"
	"amiasbakery_server/services"
	"amiasbakery_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	menuRoutes     *menu.MenuRoutesManager
	checkoutRoutes *checkout.CheckoutRoutesManager
	webhookRoutes  *webhook.WebhookRoutesManager
	healthRoutes   *health.HealthRoutesManager
	adminRoutes    *admin.AdminRoutesManager
	debugRoutes    *debug.DebugRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
) *routerManager {
	return &routerManager{
		menuRoutes:     menu.NewMenuRoutesManager(logger, sm.CatalogService),
		checkoutRoutes: checkout.NewCheckoutRoutesManager(logger, sm.CheckoutService),
		webhookRoutes:  webhook.NewWebhookRoutesManager(logger, sm.WebhookService),
		healthRoutes:   health.NewHealthRoutesManager(sm.HealthService),
		adminRoutes:    admin.NewAdminRoutesManager(logger, sm.OrderService, sm.SweeperService, mw),
		debugRoutes:    debug.NewDebugRoutesManager(cfg, sm.CacheService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.menuRoutes.RegisterRoutes(r)
	rm.checkoutRoutes.RegisterRoutes(r)
	rm.webhookRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
