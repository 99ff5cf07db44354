package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"amiasbakery_server/lib"
	"amiasbakery_server/structs"

	"github.com/MonkyMars/gecho"
)

// WebhookService reconciles Square payment notifications with stored orders.
type WebhookService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	orders *OrderService
	mailer Mailer
}

func NewWebhookService(logger *gecho.Logger, cfg *structs.Config, orders *OrderService, mailer Mailer) *WebhookService {
	return &WebhookService{
		logger: logger,
		cfg:    cfg,
		orders: orders,
		mailer: mailer,
	}
}

// HandleSquareEvent processes one notification. It returns
// lib.ErrInvalidSignature when the delivery is not authentic and a parse
// error for a body that is not JSON. Everything after that is acknowledged,
// including events this service does not act on.
func (ws *WebhookService) HandleSquareEvent(ctx context.Context, body []byte, signature string) error {
	if !lib.VerifyWebhookSignature(ws.cfg.Webhook.SignatureKey, ws.cfg.Webhook.NotificationURL, body, signature) {
		WebhookOutcomes.WithLabelValues("invalid_signature").Inc()
		ws.logger.Warn("Rejected webhook with invalid signature")
		return lib.ErrInvalidSignature
	}

	var event structs.SquareWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		WebhookOutcomes.WithLabelValues("malformed").Inc()
		return fmt.Errorf("failed to parse webhook body: %w", err)
	}

	payment := event.Data.Object.Payment
	if payment == nil || !strings.EqualFold(payment.Status, structs.SquarePaymentStatusCompleted) {
		WebhookOutcomes.WithLabelValues("ignored").Inc()
		ws.logger.Debug("Ignoring webhook event",
			gecho.Field("type", event.Type),
			gecho.Field("event_id", event.EventId))
		return nil
	}

	orderId, ok := lib.ParseOrderMarker(payment.Note)
	if !ok {
		WebhookOutcomes.WithLabelValues("unmatched").Inc()
		ws.logger.Warn("Completed payment carries no order marker",
			gecho.Field("payment_id", payment.Id),
			gecho.Field("event_id", event.EventId))
		return nil
	}

	outcome, err := ws.orders.MarkPaid(ctx, orderId, payment.Id)
	if err != nil {
		// The bakery still needs to hear about the payment.
		ws.logger.Error("Failed to mark order paid",
			gecho.Field("error", err),
			gecho.Field("order_id", orderId),
			gecho.Field("payment_id", payment.Id))
	}
	switch outcome {
	case PaymentDuplicate, PaymentMismatch, PaymentOrderNotFound, PaymentMissingId:
		WebhookOutcomes.WithLabelValues(string(outcome)).Inc()
		ws.logger.Info("Payment already handled or not applicable",
			gecho.Field("outcome", outcome),
			gecho.Field("order_id", orderId),
			gecho.Field("payment_id", payment.Id))
		return nil
	}

	order, err := ws.orders.GetOrder(ctx, orderId)
	if err != nil {
		WebhookOutcomes.WithLabelValues("error").Inc()
		ws.logger.Error("Failed to load paid order",
			gecho.Field("error", err),
			gecho.Field("order_id", orderId))
		return nil
	}
	if order == nil {
		WebhookOutcomes.WithLabelValues(string(PaymentOrderNotFound)).Inc()
		return nil
	}

	subject, text := FormatPaidOrderEmail(order, payment.Id)
	if err := ws.mailer.SendEmail([]string{ws.cfg.Email.OrdersTo}, subject, text); err != nil {
		ws.logger.Error("Failed to send paid order email",
			gecho.Field("error", err),
			gecho.Field("order_id", orderId),
			gecho.Field("order_number", order.OrderNumber))
	}

	WebhookOutcomes.WithLabelValues("paid").Inc()
	ws.logger.Info("Order paid",
		gecho.Field("order_id", orderId),
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("payment_id", payment.Id))
	return nil
}
