package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"

	"github.com/rabbitmq/amqp091-go"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	publishErr error
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestSetupExchange(t *testing.T) {
	ch := &fakeChannel{}
	if err := SetupExchange(ch); err != nil {
		t.Fatalf("SetupExchange() error = %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != "neurix_events:topic" {
		t.Fatalf("declared = %v", ch.declared)
	}
}

func TestPublishNodeCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch)

	node := common.Node{ID: "n1", Summary: "s", Keys: []string{"ocean"}}
	if err := p.PublishNodeCreated(context.Background(), "session-1", node, true); err != nil {
		t.Fatalf("PublishNodeCreated() error = %v", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("expected 1 message, got %d", len(ch.published))
	}
	msg := ch.published[0]
	if msg.exchange != EventsExchange || msg.key != NodeCreatedTopic {
		t.Fatalf("published to %s/%s", msg.exchange, msg.key)
	}
	if msg.msg.DeliveryMode != amqp091.Persistent || msg.msg.ContentType != "application/json" {
		t.Fatalf("unexpected publishing %+v", msg.msg)
	}

	var event NodeCreatedEvent
	if err := json.Unmarshal(msg.msg.Body, &event); err != nil {
		t.Fatalf("body is not an event: %v", err)
	}
	if event.SessionID != "session-1" || event.Node.ID != "n1" || !event.Persisted {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	p := NewPublisher(&fakeChannel{publishErr: boom})

	if err := p.PublishNodeCreated(context.Background(), "s", common.Node{ID: "n"}, false); !errors.Is(err, boom) {
		t.Fatalf("expected publish error, got %v", err)
	}
}
