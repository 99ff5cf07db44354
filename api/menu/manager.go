package menu

import (
	"amiasbakery_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type MenuRoutesManager struct {
	logger         *gecho.Logger
	catalogService *services.CatalogService
}

func NewMenuRoutesManager(logger *gecho.Logger, catalogService *services.CatalogService) *MenuRoutesManager {
	return &MenuRoutesManager{
		logger:         logger,
		catalogService: catalogService,
	}
}

func (mrm *MenuRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/menu/{page}", mrm.GetMenuPage)
	r.Get("/pickup-slots", mrm.GetPickupSlots)
}
