package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/OFFIS-RIT/neurix/backend/internal/util"
	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	// EventsExchange is the topic exchange node events are published to.
	EventsExchange = "neurix_events"
	// NodeCreatedTopic is the routing key of NodeCreatedEvent.
	NodeCreatedTopic = "node.created"
)

// NodeCreatedEvent is published after a node was added to a session graph.
type NodeCreatedEvent struct {
	SessionID string      `json:"session_id"`
	Node      common.Node `json:"node"`
	Persisted bool        `json:"persisted"`
}

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Enabled reports whether a broker is configured.
func Enabled() bool {
	return util.GetEnv("RABBITMQ_HOST") != ""
}

// Init connects to RabbitMQ using the RABBITMQ_* environment variables.
// The dial is retried a few times since the broker often starts after the
// server in local setups.
func Init() *amqp091.Connection {
	user := util.GetEnv("RABBITMQ_USER")
	pass := util.GetEnv("RABBITMQ_PASSWORD")
	host := util.GetEnv("RABBITMQ_HOST")
	port := util.GetEnvString("RABBITMQ_PORT", "5672")

	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		user,
		pass,
		host,
		port,
	)

	conn, err := util.Retry(5, 2*time.Second, func() (*amqp091.Connection, error) {
		return amqp091.Dial(connURL)
	})
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// SetupExchange declares EventsExchange.
func SetupExchange(ch amqpChannel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}

// Publisher publishes node events on a single channel. AMQP channels must
// not be used for concurrent publishing, so calls are serialized.
type Publisher struct {
	mu sync.Mutex
	ch amqpChannel
}

// NewPublisher creates a Publisher on ch. SetupExchange must have been
// called on the channel before.
func NewPublisher(ch amqpChannel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishTopic publishes data to EventsExchange with the given routing key.
func (p *Publisher) PublishTopic(ctx context.Context, topic string, data []byte) error {
	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(
		ctx,
		EventsExchange,
		topic,
		false,
		false,
		publishing,
	)
}

// PublishNodeCreated publishes a NodeCreatedEvent for node.
func (p *Publisher) PublishNodeCreated(ctx context.Context, sessionID string, node common.Node, persisted bool) error {
	data, err := json.Marshal(NodeCreatedEvent{
		SessionID: sessionID,
		Node:      node,
		Persisted: persisted,
	})
	if err != nil {
		return err
	}
	return p.PublishTopic(ctx, NodeCreatedTopic, data)
}
