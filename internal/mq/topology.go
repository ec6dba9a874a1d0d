package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeBuilds Exchange = "synthflow.builds"
	ExchangeDLQ    Exchange = "synthflow.dlq"
)

// Queues — имена очередей.
const (
	QueueBuildsRequested Queue = "builds.requested"
	QueueBuildsCompleted Queue = "builds.completed"
	QueueDLQBuilds       Queue = "dlq.builds"
)

// Routing keys.
const (
	RoutingKeyRequested RoutingKey = "requested"
	RoutingKeyCompleted RoutingKey = "completed"
	RoutingKeyDLQBuilds RoutingKey = "builds"
)

// binding — очередь, её аргументы и привязка.
type binding struct {
	queue      Queue
	exchange   Exchange
	routingKey RoutingKey
	args       amqp.Table
}

// topology — все очереди Synthflow.
func topology() []binding {
	dlq := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQBuilds),
	}

	return []binding{
		// запросы, которые worker не смог разобрать, уходят в DLQ
		{QueueBuildsRequested, ExchangeBuilds, RoutingKeyRequested, dlq},
		{QueueBuildsCompleted, ExchangeBuilds, RoutingKeyCompleted, nil},
		{QueueDLQBuilds, ExchangeDLQ, RoutingKeyDLQBuilds, nil},
	}
}

// SetupTopology объявляет exchanges, queues и bindings. Идемпотентна.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, ex := range []Exchange{ExchangeBuilds, ExchangeDLQ} {
			err := ch.ExchangeDeclare(
				string(ex), // name
				"direct",   // type
				true,       // durable
				false,      // auto-deleted
				false,      // internal
				false,      // no-wait
				nil,        // arguments
			)
			if err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex, err)
			}
		}

		for _, b := range topology() {
			_, err := ch.QueueDeclare(
				string(b.queue), // name
				true,            // durable
				false,           // delete when unused
				false,           // exclusive
				false,           // no-wait
				b.args,          // arguments
			)
			if err != nil {
				return fmt.Errorf("declare queue %s: %w", b.queue, err)
			}

			err = ch.QueueBind(
				string(b.queue),
				string(b.routingKey),
				string(b.exchange),
				false,
				nil,
			)
			if err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}

		return nil
	})
}
