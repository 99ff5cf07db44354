package webhook

import (
	"amiasbakery_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

const SignatureHeader = "x-square-hmacsha256-signature"

type WebhookRoutesManager struct {
	logger         *gecho.Logger
	webhookService *services.WebhookService
}

func NewWebhookRoutesManager(logger *gecho.Logger, webhookService *services.WebhookService) *WebhookRoutesManager {
	return &WebhookRoutesManager{
		logger:         logger,
		webhookService: webhookService,
	}
}

func (wrm *WebhookRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/api/square/webhook", wrm.HandleSquareWebhook)
}
