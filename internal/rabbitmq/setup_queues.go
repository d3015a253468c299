package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetOrderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "orders.created", RoutingKey: "created"},
	}
}
