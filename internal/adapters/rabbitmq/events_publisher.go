package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"showcase-service/internal/constants"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/contracts"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher - то, что адаптерам нужно от rabbitmq_producer.Publisher
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// EventsPublisher публикует события просмотров и изменения настроек витрины.
// Реализует ViewRecorderPort и SettingsEventPublisherPort.
type EventsPublisher struct {
	producer publisher
	timeout  time.Duration
}

func NewEventsPublisher(producer publisher) (*EventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	return &EventsPublisher{producer: producer, timeout: 5 * time.Second}, nil
}

func (a *EventsPublisher) RecordView(ctx context.Context, view domain.PropertyView) error {
	return a.publish(ctx, constants.RoutingKeyPropertyViewed, constants.EventPropertyViewed, PropertyViewedEventDTO{
		PropertyID: view.PropertyID,
		ViewedAt:   view.ViewedAt.UTC(),
	})
}

func (a *EventsPublisher) PublishSettingsUpdated(ctx context.Context, event domain.HomepageSettingsUpdated) error {
	return a.publish(ctx, constants.RoutingKeyHomepageSettingsUpdated, constants.EventHomepageSettingsUpdated, HomepageSettingsUpdatedEventDTO{
		Version:     event.Version,
		DisplayMode: string(event.DisplayMode),
		UpdatedBy:   event.UpdatedBy,
		UpdatedAt:   event.UpdatedAt.UTC(),
	})
}

func (a *EventsPublisher) publish(ctx context.Context, routingKey, eventType string, payload interface{}) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "RabbitMQEventsPublisher",
		"routing_key": routingKey,
		"event_type":  eventType,
	})

	body, err := json.Marshal(payload)
	if err != nil {
		adapterLogger.Error("Failed to marshal event", err, nil)
		return fmt.Errorf("failed to marshal %s: %w", eventType, err)
	}
	if err := contracts.ValidateEvent(eventType, constants.EventVersion, body); err != nil {
		adapterLogger.Error("Event does not match its schema", err, nil)
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    eventType,
			"event-version": constants.EventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish event", err, nil)
		return err
	}

	adapterLogger.Debug("Event published", nil)
	return nil
}
