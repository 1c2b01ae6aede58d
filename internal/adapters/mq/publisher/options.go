package publisher

import (
	"time"

	"github.com/okian/standings/pkg/logger"
)

// Option applies a configuration option to the KafkaPublisher.
type Option func(*KafkaPublisher)

// WithLogger sets the publisher's logger.
func WithLogger(log logger.Logger) Option {
	return func(p *KafkaPublisher) {
		if log != nil {
			p.log = log
		}
	}
}

// WithWriteTimeout bounds each publish (default 10s).
func WithWriteTimeout(d time.Duration) Option {
	return func(p *KafkaPublisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// withWriter replaces the Kafka writer; used by tests.
func withWriter(w messageWriter) Option {
	return func(p *KafkaPublisher) {
		p.w = w
	}
}
