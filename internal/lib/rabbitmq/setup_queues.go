package rabbitmq

// ProvisionExchange — exchange для сообщений провизионирования подписок.
const ProvisionExchange = "provisioning"

// ProvisionRetryKey — ключ маршрутизации повторных попыток выдачи
// бесплатной подписки.
const ProvisionRetryKey = "retry"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetProvisionQueues возвращает очереди, которые потребляет provision-worker.
func GetProvisionQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "provision.retry", RoutingKey: ProvisionRetryKey},
	}
}
