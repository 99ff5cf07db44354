package debug

import (
	"amiasbakery_server/services"
	"amiasbakery_server/structs"

	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	cfg          *structs.Config
	cacheService *services.CacheService
}

func NewDebugRoutesManager(cfg *structs.Config, cacheService *services.CacheService) *DebugRoutesManager {
	return &DebugRoutesManager{
		cfg:          cfg,
		cacheService: cacheService,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if drm.cfg.Server.Environment != "production" {
		r.Route("/debug", func(r chi.Router) {
			r.Post("/cache/clear", drm.ClearCache)
		})
	}
}
