// Package publisher announces computed standings snapshots to other services.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/okian/standings/internal/adapters/repository"
	"github.com/okian/standings/pkg/logger"
)

const defaultWriteTimeout = 10 * time.Second

// Publisher sends snapshots somewhere once they are stored.
type Publisher interface {
	Publish(ctx context.Context, snap repository.Snapshot) error
	Close() error
}

// Nop discards every snapshot.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, repository.Snapshot) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per snapshot, keyed by snapshot ID,
// with the snapshot as the JSON value.
type KafkaPublisher struct {
	w       messageWriter
	topic   string
	log     logger.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafka creates a publisher writing to topic on brokers.
func NewKafka(brokers []string, topic string, opts ...Option) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	p := &KafkaPublisher{
		topic:   topic,
		log:     logger.Nop(),
		timeout: defaultWriteTimeout,
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, snap repository.Snapshot) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}

	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.ID, err)
	}
	msg := kafka.Message{
		Key:   []byte(snap.ID),
		Value: value,
		Time:  snap.ComputedAt,
		Headers: []kafka.Header{
			{Key: "gate_mode", Value: []byte(snap.GateMode)},
			{Key: "bonus_mode", Value: []byte(snap.BonusMode)},
		},
	}

	wctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.w.WriteMessages(wctx, msg); err != nil {
		return fmt.Errorf("publish snapshot %s to %s: %w", snap.ID, p.topic, err)
	}
	p.log.Debug(ctx, "snapshot published", logger.String("topic", p.topic), logger.String("snapshot", snap.ID))
	return nil
}

// Close flushes and closes the writer. It is safe to call more than once.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.w.Close()
}
