package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"nbms/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
//
// Synchronous mode (the default) is required wherever the audit write must
// commit atomically with a state change; services pass a tx-bound store for
// that. Async mode exists for high-volume read-side attribution where losing
// an event under backpressure is acceptable.
type Publisher struct {
	store   Store
	events  chan Event
	wg      sync.WaitGroup
	logger  *slog.Logger
	emitted prometheus.Counter
	async   bool
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
			p.async = true
		}
	}
}

// WithPublisherLogger sets a logger for async error reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithEmitCounter counts every event accepted by Emit.
func WithEmitCounter(counter prometheus.Counter) PublisherOption {
	return func(p *Publisher) {
		p.emitted = counter
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

// processEvents runs in a goroutine and persists events from the channel.
func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.store.Append(context.Background(), event); err != nil {
			if p.logger != nil {
				p.logger.Error("failed to persist audit event",
					"error", err,
					"action", event.Action,
					"object", event.Object.String(),
				)
			}
		}
	}
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

// Emit records an event, stamping timestamp and request ID when absent.
// Metadata is redacted before the event leaves this method so the async
// queue never holds sensitive values.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	event.Metadata = RedactMetadata(event.Metadata)

	if p.emitted != nil {
		p.emitted.Inc()
	}

	if p.async {
		// Non-blocking send; drop event if buffer is full to avoid blocking hot path
		select {
		case p.events <- event:
			return nil
		default:
			if p.logger != nil {
				p.logger.Warn("audit buffer full, event dropped",
					"action", event.Action,
					"object", event.Object.String(),
				)
			}
			return nil
		}
	}
	return p.store.Append(ctx, event)
}

// purgeTimeout bounds the retention delete so a large backlog cannot hold a
// connection indefinitely.
const purgeTimeout = 30 * time.Second

// Purge deletes events older than the cutoff. The caller gates this behind
// the admin role and the purge itself is audited.
func (p *Publisher) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, purgeTimeout)
		defer cancel()
	}
	return p.store.PurgeOlderThan(ctx, cutoff)
}
