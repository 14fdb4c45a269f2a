package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RetryQueuePublisher публикует задачи провизионирования в exchange
// повторных попыток.
type RetryQueuePublisher struct {
	ch *amqp.Channel
}

// NewRetryQueuePublisher создает новый RetryQueuePublisher поверх канала.
func NewRetryQueuePublisher(ch *amqp.Channel) *RetryQueuePublisher {
	return &RetryQueuePublisher{ch: ch}
}

// Publish отправляет сообщение с ключом маршрутизации повторных попыток.
func (p *RetryQueuePublisher) Publish(message any) error {
	return PublishMessage(p.ch, ProvisionExchange, ProvisionRetryKey, message)
}
