package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
	// DeadLetter receives events that failed after one redelivery. Empty disables it.
	DeadLetter string
	Prefetch   int
}

// AMQPPublisher publishes events to a topic exchange, routing key = event kind.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(cfg AMQPConfig) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, string(ev.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.CreatedAt,
		Body:         b,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// AMQPConsumer feeds queued events to a Handler. A failed delivery is
// requeued once; a second failure goes to the dead-letter exchange.
type AMQPConsumer struct {
	cfg     AMQPConfig
	handler Handler

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPConsumer(cfg AMQPConfig, h Handler) *AMQPConsumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 8
	}
	return &AMQPConsumer{cfg: cfg, handler: h}
}

func (c *AMQPConsumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}
	fail := func(format string, err error) error {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf(format, err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fail("declare exchange failed: %w", err)
	}

	args := amqp.Table{}
	if c.cfg.DeadLetter != "" {
		args["x-dead-letter-exchange"] = c.cfg.DeadLetter
		if err := ch.ExchangeDeclare(c.cfg.DeadLetter, "topic", true, false, false, false, nil); err != nil {
			return fail("declare dlx failed: %w", err)
		}
		dlq := c.cfg.Queue + ".dlq"
		if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
			return fail("declare dlq failed: %w", err)
		}
		if err := ch.QueueBind(dlq, "#", c.cfg.DeadLetter, false, nil); err != nil {
			return fail("bind dlq failed: %w", err)
		}
	}

	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, args)
	if err != nil {
		return fail("declare queue failed: %w", err)
	}
	for _, key := range []Kind{KindBookingCreated, KindBookingConfirmed, KindBookingRejected, KindCheckoutReminder} {
		if err := ch.QueueBind(q.Name, string(key), c.cfg.Exchange, false, nil); err != nil {
			return fail("bind queue failed: %w", err)
		}
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fail("set qos failed: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func (c *AMQPConsumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *AMQPConsumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, "resort-notify", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			c.deliver(ctx, d)
		}
	}
}

func (c *AMQPConsumer) deliver(ctx context.Context, d amqp.Delivery) {
	ev, err := decodeEvent(d.Body)
	if err != nil {
		log.Printf("❌ [notify] bad payload key=%s: %v", d.RoutingKey, err)
		_ = d.Nack(false, false)
		return
	}
	if err := c.handler.Handle(ctx, ev); err != nil {
		requeue := !d.Redelivered
		log.Printf("[notify] handle error key=%s id=%s requeue=%v: %v", d.RoutingKey, ev.ID, requeue, err)
		_ = d.Nack(false, requeue)
		return
	}
	_ = d.Ack(false)
}
