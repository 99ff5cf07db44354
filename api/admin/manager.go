package admin

import (
	"amiasbakery_server/api/middleware"
	"amiasbakery_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger         *gecho.Logger
	orderService   *services.OrderService
	sweeperService *services.SweeperService
	mw             *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	orderService *services.OrderService,
	sweeperService *services.SweeperService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:         logger,
		orderService:   orderService,
		sweeperService: sweeperService,
		mw:             mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.AdminAuthMiddleware)

		// Order management routes
		r.Get("/orders", ar.ListOrders)
		r.Get("/orders/{id}", ar.GetOrderDetails)
		r.Post("/orders/sweep", ar.SweepAbandonedOrders)
	})
}
