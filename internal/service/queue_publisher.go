// Package service holds the application logic that sits between handlers
// and stores: identity sync on login and ledger event publishing.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/kakao-ledger/internal/queue"
)

// EventPublisher delivers ledger events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.LedgerEvent) error
}

// NopPublisher drops every event.  Used when AMQP_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.LedgerEvent) error { return nil }

// AMQPPublisher keeps one connection and channel open and reopens them
// lazily after a failure.  Messages go to the default exchange with the
// queue name as routing key and are marked persistent.
//
// Every step, waiting for the connection included, is bounded by the
// caller's context: a broker that accepts TCP but never answers costs a
// request at most its publish timeout.
type AMQPPublisher struct {
	url         string
	queue       string
	dialTimeout time.Duration

	sem  chan struct{} // held while conn and ch are used
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
	return &AMQPPublisher{
		url:         url,
		queue:       queueName,
		dialTimeout: 3 * time.Second,
		sem:         make(chan struct{}, 1),
	}
}

func (p *AMQPPublisher) lock(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for broker connection: %w", ctx.Err())
	}
}

func (p *AMQPPublisher) unlock() { <-p.sem }

// handshakeTimeout caps the TCP dial and AMQP handshake at dialTimeout or
// the time left on ctx, whichever is shorter.
func (p *AMQPPublisher) handshakeTimeout(ctx context.Context) (time.Duration, error) {
	d := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < d {
			d = left
		}
	}
	return d, ctx.Err()
}

func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	timeout, err := p.handshakeTimeout(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

// Publish sends ev once; the connection is dropped on failure so the next
// call redials.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.LedgerEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.lock(ctx); err != nil {
		return err
	}
	defer p.unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	})
	if err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	_ = p.lock(context.Background())
	defer p.unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	p.conn, p.ch = nil, nil
	return errors.Join(errs...)
}

// Events stamps and publishes events on behalf of request handlers.
// Publishing never fails a request; errors are only logged.
type Events struct {
	pub     EventPublisher
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewEvents(pub EventPublisher) *Events {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Events{
		pub:     pub,
		log:     slog.With("component", "events"),
		timeout: 3 * time.Second,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Emit publishes ev detached from the request's cancellation.
func (e *Events) Emit(ctx context.Context, ev queue.LedgerEvent) {
	if e == nil {
		return
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = e.now().Format(time.RFC3339)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.Warn("publish event failed", "type", ev.Type, "user_id", ev.UserID, "error", err)
	}
}
