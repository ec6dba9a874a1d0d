package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler обрабатывает одно сообщение.
//
// nil — сообщение подтверждается. Ошибка — сообщение отклоняется;
// вернётся ли оно в очередь, решает ConsumerConfig.Requeue.
type Handler func(ctx context.Context, msg *Message) error

// ErrDeliveriesClosed — брокер закрыл канал доставки.
var ErrDeliveriesClosed = errors.New("deliveries channel closed")

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	Queue   Queue
	Handler Handler

	// Prefetch — сколько неподтверждённых сообщений держать (по умолчанию 1).
	Prefetch int

	// Requeue — возвращать ли сообщение в очередь при ошибке обработчика.
	// false отправляет его в DLQ очереди.
	Requeue bool
}

// Consumer потребляет сообщения из очереди.
type Consumer struct {
	conn   *Connection
	logger *slog.Logger
	cfg    ConsumerConfig

	cancel context.CancelFunc
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		conn:   conn,
		logger: logger.With("queue", cfg.Queue),
		cfg:    cfg,
	}
}

// Start потребляет сообщения до отмены ctx или вызова Stop.
// После переподключения соединения потребление возобновляется.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	for {
		deliveries, err := c.subscribe()
		if err == nil {
			c.logger.Info("consumer started")
			err = c.drain(ctx, deliveries)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("consumer interrupted, waiting for reconnect", "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.conn.ReconnectNotify():
		}
	}
}

// Stop останавливает consumer.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Consumer) subscribe() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, ErrNoChannel
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(
		string(c.cfg.Queue),
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	return deliveries, nil
}

func (c *Consumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.dispatch(ctx, d)
		}
	}
}

// dispatch разбирает конверт и вызывает обработчик.
func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) {
	msg, err := DecodeMessage(d.Body)
	if err != nil {
		c.logger.Error("failed to decode message", "error", err, "body", string(d.Body))
		_ = d.Nack(false, false)
		return
	}

	logger := c.logger.With("message_id", msg.ID, "type", msg.Type)
	logger.Debug("received message")

	if err := c.cfg.Handler(ctx, msg); err != nil {
		logger.Error("handler failed", "error", err, "requeue", c.cfg.Requeue)
		_ = d.Nack(false, c.cfg.Requeue)
		return
	}
	_ = d.Ack(false)
}

// DecodeMessage разбирает тело AMQP-сообщения в конверт.
func DecodeMessage(body []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("message %q has no type", msg.ID)
	}
	return &msg, nil
}

// ParsePayload разбирает payload сообщения в T.
func ParsePayload[T any](msg *Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("unmarshal %s payload: %w", msg.Type, err)
	}
	return out, nil
}
