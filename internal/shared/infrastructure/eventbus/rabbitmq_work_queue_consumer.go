package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery body. A non-nil error nacks and
// requeues the message; nil acks it.
type MessageHandler func(ctx context.Context, body []byte) error

// WorkQueueConsumerConfig configures a RabbitMQWorkQueueConsumer.
type WorkQueueConsumerConfig struct {
	URL       string
	QueueName string
	Logger    *slog.Logger
}

// RabbitMQWorkQueueConsumer consumes plain point-to-point job messages off a
// durable queue. It does not bind to the topic exchange that carries
// run.completed/run.failed: solve requests are work items for exactly one
// consumer, not events broadcast to many.
type RabbitMQWorkQueueConsumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queue     string
	logger    *slog.Logger
	mu        sync.Mutex
	running   bool
	closeChan chan struct{}
}

// NewRabbitMQWorkQueueConsumer dials RabbitMQ and declares the given queue.
func NewRabbitMQWorkQueueConsumer(cfg WorkQueueConsumerConfig) (*RabbitMQWorkQueueConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	cfg.Logger.Info("RabbitMQ work queue consumer connected", "queue", cfg.QueueName)

	return &RabbitMQWorkQueueConsumer{
		conn:      conn,
		channel:   ch,
		queue:     cfg.QueueName,
		logger:    cfg.Logger,
		closeChan: make(chan struct{}),
	}, nil
}

// Start consumes messages until ctx is cancelled or Close is called. Blocking.
func (c *RabbitMQWorkQueueConsumer) Start(ctx context.Context, handler MessageHandler) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("consumer already running")
	}
	c.running = true
	c.mu.Unlock()

	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (we ack/nack manually)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("started consuming solve requests", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer context cancelled, stopping")
			return ctx.Err()

		case <-c.closeChan:
			c.logger.Info("consumer close requested, stopping")
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed unexpectedly")
			}

			if err := handler(ctx, msg.Body); err != nil {
				c.logger.Error("failed to process solve request", "error", err)
				if nackErr := msg.Nack(false, true); nackErr != nil {
					c.logger.Error("failed to nack message", "error", nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.logger.Error("failed to ack message", "error", ackErr)
			}
		}
	}
}

// Close closes the consumer connection.
func (c *RabbitMQWorkQueueConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}
	close(c.closeChan)
	c.running = false

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return err
		}
	}

	c.logger.Info("RabbitMQ work queue consumer closed")
	return nil
}
