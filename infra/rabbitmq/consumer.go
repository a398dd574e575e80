package rabbitmq

import (
	"catalog/pkg/events"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultPrefetch = 10
	handleTimeout   = 30 * time.Second
)

// EventHandler processes one decoded event. A returned error dead-letters
// the message.
type EventHandler func(ctx context.Context, event *events.Event) error

type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	queueName   string
	serviceName string
}

type ConsumerConfig struct {
	Exchange      string   // e.g. "catalog.enquiry"
	QueueName     string   // e.g. "mailer.enquiry.created.v1"
	RoutingKeys   []string // e.g. ["enquiry.created.v1"]
	ServiceName   string   // used as the consumer tag
	PrefetchCount int      // 0 means the default of 10
}

// DeadLetterExchange is where rejected messages from the queue are routed.
func (c ConsumerConfig) DeadLetterExchange() string {
	return c.Exchange + ".dlx"
}

func (c ConsumerConfig) DeadLetterQueue() string {
	return c.QueueName + ".dlq"
}

func (c ConsumerConfig) Validate() error {
	if c.Exchange == "" || c.QueueName == "" {
		return errors.New("consumer needs an exchange and a queue name")
	}
	if len(c.RoutingKeys) == 0 {
		return errors.New("consumer needs at least one routing key")
	}
	return nil
}

func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel, config); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	zap.L().Info("RabbitMQ consumer created successfully",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
	)

	return &Consumer{
		conn:        conn,
		channel:     channel,
		queueName:   config.QueueName,
		serviceName: config.ServiceName,
	}, nil
}

// declareTopology sets QoS and declares the exchange, the queue and its dead
// letter pair, binding both queues with every routing key.
func declareTopology(ch *amqp.Channel, config ConsumerConfig) error {
	prefetch := config.PrefetchCount
	if prefetch == 0 {
		prefetch = defaultPrefetch
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareTopicExchange(ch, config.Exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	dlx := config.DeadLetterExchange()
	if err := declareTopicExchange(ch, dlx); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}

	if _, err := ch.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-dead-letter-exchange": dlx},
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	dlq := config.DeadLetterQueue()
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	for _, key := range config.RoutingKeys {
		if err := ch.QueueBind(dlq, key, dlx, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ: %w", err)
		}
		if err := ch.QueueBind(config.QueueName, key, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}
	return nil
}

// Consume delivers messages to handler one at a time until ctx is done.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		c.serviceName, // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages", zap.String("queue", c.queueName))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Consumer context cancelled, stopping...")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.handleMessage(ctx, msg, handler)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery, handler EventHandler) {
	traceID, correlationID, service := traceHeaders(msg.Headers)
	log := zap.L().With(
		zap.String("queue", c.queueName),
		zap.String("routingKey", msg.RoutingKey),
		zap.String("traceId", traceID),
	)

	log.Info("Received message",
		zap.String("correlationId", correlationID),
		zap.String("sourceService", service),
	)

	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Error("Failed to unmarshal event", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	processCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := handler(processCtx, &event); err != nil {
		log.Error("Failed to process event", zap.String("event", event.Event), zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	if err := msg.Ack(false); err != nil {
		log.Error("Failed to acknowledge message", zap.Error(err))
		return
	}
	log.Info("Successfully processed event", zap.String("event", event.Event))
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}
