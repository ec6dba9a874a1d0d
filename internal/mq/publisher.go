package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Synthflow/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeBuildRequested MessageType = "build.requested"
	MessageTypeBuildCompleted MessageType = "build.completed"
)

// Message — конверт сообщения.
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage упаковывает payload в конверт с новым ID.
func NewMessage(msgType MessageType, payload any) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

// BuildRequestedPayload — запрос на сборку.
type BuildRequestedPayload struct {
	Backend  string              `json:"backend"`
	Request  domain.BuildRequest `json:"request"`
	Schedule string              `json:"schedule,omitempty"` // имя расписания, если запрос от scheduler
}

// BuildCompletedPayload — итог сборки.
type BuildCompletedPayload struct {
	BuildID     uuid.UUID          `json:"build_id"`
	Backend     string             `json:"backend"`
	ProjectDir  string             `json:"project_dir"`
	Status      domain.BuildStatus `json:"status"`
	Error       string             `json:"error,omitempty"`
	ArtifactKey string             `json:"artifact_key,omitempty"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conn: conn, logger: logger}
}

// Publish публикует сообщение в exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(ctx,
			string(exchange),
			string(routingKey),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishBuildRequested публикует запрос на сборку. Потребитель: worker.
func (p *Publisher) PublishBuildRequested(ctx context.Context, payload BuildRequestedPayload) error {
	msg, err := NewMessage(MessageTypeBuildRequested, payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, ExchangeBuilds, RoutingKeyRequested, msg)
}

// PublishBuildCompleted публикует итог сборки.
func (p *Publisher) PublishBuildCompleted(ctx context.Context, payload BuildCompletedPayload) error {
	msg, err := NewMessage(MessageTypeBuildCompleted, payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, ExchangeBuilds, RoutingKeyCompleted, msg)
}
