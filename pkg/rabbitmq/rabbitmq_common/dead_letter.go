package rabbitmq_common

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareDeadLetter объявляет direct-обменник и очередь для отклоненных сообщений
func DeclareDeadLetter(m *ConnectionManager, exchange, queue, routingKey string) error {
	_, ch, err := m.GetChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter exchange %s: %w", exchange, err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead letter queue %s: %w", queue, err)
	}
	return nil
}
