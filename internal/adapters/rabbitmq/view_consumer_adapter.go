package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"showcase-service/internal/constants"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/contracts"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	usecases_port "showcase-service/internal/core/port/usecases_port"
	"showcase-service/pkg/rabbitmq/rabbitmq_common"
	"showcase-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// errPoisonMessage - сообщение, которое не станет валидным при повторе
var errPoisonMessage = errors.New("poison message")

// ViewConsumerAdapter - входящий адаптер: слушает очередь просмотров и вызывает use case
type ViewConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	useCase  usecases_port.RecordPropertyViewUseCasePort
	logger   port.LoggerPort
}

func NewViewConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.RecordPropertyViewUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ViewConsumerAdapter, error) {
	adapter := &ViewConsumerAdapter{useCase: useCase, logger: logger}

	consumerCfg.Logger = NewPkgLoggerBridge(logger.WithFields(port.Fields{
		"component":    "rabbitmq_view_consumer",
		"consumer_tag": consumerCfg.ConsumerTag,
	}))

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for property views: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

func (a *ViewConsumerAdapter) messageHandler(d amqp.Delivery) error {
	return a.handle(context.Background(), d)
}

func (a *ViewConsumerAdapter) handle(ctx context.Context, d amqp.Delivery) error {
	traceID, ok := d.Headers["x-trace-id"].(string)
	if !ok || traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	eventVersion, _ := d.Headers["event-version"].(string)
	if eventVersion == "" {
		eventVersion = constants.EventVersion
	}
	if err := contracts.ValidateEvent(constants.EventPropertyViewed, eventVersion, d.Body); err != nil {
		msgLogger.Error("Invalid property view event, dropping", err, nil)
		return fmt.Errorf("%w: %v", errPoisonMessage, err)
	}

	var event PropertyViewedEventDTO
	if err := json.Unmarshal(d.Body, &event); err != nil {
		msgLogger.Error("Error unmarshalling DTO", err, nil)
		return fmt.Errorf("%w: %v", errPoisonMessage, err)
	}

	err := a.useCase.Execute(ctx, domain.PropertyView{PropertyID: event.PropertyID, ViewedAt: event.ViewedAt})
	if err != nil {
		msgLogger.Error("Failed to record property view", err, port.Fields{"property_id": event.PropertyID})
		return err
	}
	return nil
}

// Start реализует EventListenerPort
func (a *ViewConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *ViewConsumerAdapter) Close() error {
	return a.consumer.Close()
}
