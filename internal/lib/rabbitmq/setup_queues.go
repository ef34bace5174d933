package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в exchange уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации уведомлений портала.
const (
	RoutingKeyProposal     = "proposal"
	RoutingKeyRegistration = "registration"
)

// GetNotificationQueues возвращает очереди воркера уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.proposal", RoutingKey: RoutingKeyProposal},
		{QueueName: "notification.registration", RoutingKey: RoutingKeyRegistration},
	}
}
