package services

import (
	"context"
	"encoding/json"
	"time"

	"amiasbakery_server/structs"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderPaid      = "order.paid"
	EventOrderCancelled = "order.cancelled"
)

const publishTimeout = 5 * time.Second

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event structs.OrderEvent) error
}

// EventsService publishes order events to Kafka. Without brokers configured
// it only logs, so local development needs no broker.
type EventsService struct {
	logger *gecho.Logger
	writer *kafka.Writer
}

func NewEventsService(logger *gecho.Logger, cfg *structs.Config) *EventsService {
	es := &EventsService{logger: logger}
	if cfg.Events == nil || len(cfg.Events.Brokers) == 0 {
		logger.Info("No Kafka brokers configured, order events will not be published")
		return es
	}

	es.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Events.Brokers...),
		Topic:                  cfg.Events.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           publishTimeout,
		AllowAutoTopicCreation: true,
	}
	return es
}

func (es *EventsService) Publish(ctx context.Context, event structs.OrderEvent) error {
	if es.writer == nil {
		es.logger.Debug("Order event (not published)", gecho.Field("type", event.Type), gecho.Field("order_id", event.OrderId))
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// Keyed by order so every event of one order lands on the same partition.
	return es.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderId),
		Value: payload,
		Time:  event.OccurredAt,
	})
}

func (es *EventsService) Close() error {
	if es.writer == nil {
		return nil
	}
	return es.writer.Close()
}

func newOrderEvent(eventType string, order *tables.Order) structs.OrderEvent {
	return structs.OrderEvent{
		Type:       eventType,
		OrderId:    order.Id.String(),
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
		OccurredAt: time.Now().UTC(),
	}
}

// publishAsync sends an event in the background. Failures are logged only.
func publishAsync(logger *gecho.Logger, publisher EventPublisher, event structs.OrderEvent) {
	if publisher == nil {
		return
	}
	go func() {
		if err := publisher.Publish(context.Background(), event); err != nil {
			logger.Error("Failed to publish order event",
				gecho.Field("error", err),
				gecho.Field("type", event.Type),
				gecho.Field("order_id", event.OrderId))
		}
	}()
}
