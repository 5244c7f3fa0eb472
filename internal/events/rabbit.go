package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/abhisek/quizard/internal/quiz"
)

// RabbitPublisher publishes completion events to a durable topic exchange.
// A dropped connection or channel is reopened on the next publish.
type RabbitPublisher struct {
	url      string
	exchange string

	mu   sync.Mutex // guards conn and ch; channels are not safe for concurrent publishing
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialRabbit connects to url and declares the exchange.
func DialRabbit(url, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &RabbitPublisher{url: url, exchange: exchange}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

// channel returns an open channel, redialling as needed. Callers hold mu.
func (p *RabbitPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.ch = nil

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		p.conn.Close()
		p.conn = nil
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		// A failed declare closes the channel but leaves the connection usable.
		return nil, fmt.Errorf("declare exchange %q: %w", p.exchange, err)
	}

	p.ch = ch
	return ch, nil
}

// SessionCompleted publishes a quiz.session.completed event. A publish that
// fails because the broker dropped the channel is retried once on a fresh one.
func (p *RabbitPublisher) SessionCompleted(ctx context.Context, c quiz.Completion) error {
	body, err := json.Marshal(NewSessionCompleted(c))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         RoutingKeySessionCompleted,
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; ; attempt++ {
		ch, err := p.channel()
		if err != nil {
			return err
		}
		err = ch.PublishWithContext(ctx, p.exchange, RoutingKeySessionCompleted,
			false, // mandatory
			false, // immediate
			msg,
		)
		if err == nil {
			return nil
		}
		if attempt > 0 || !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("publish %s: %w", RoutingKeySessionCompleted, err)
		}
		p.ch = nil
	}
}

// Close closes the channel and the connection.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.ch != nil && !p.ch.IsClosed() {
		err = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		err = errors.Join(err, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	return err
}
