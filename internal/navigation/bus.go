package navigation

import (
	"context"
	"sync"

	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/metrics"
	"github.com/roach88/recipebox/internal/stream"
)

// Bus is an ordered, unbounded queue of pending navigation events.
//
// Navigate may be called from any goroutine. The presentation layer either
// reads Pending or Updates and then calls ClearEvents once it has handled
// everything it saw, or lets Run drain and dispatch for it.
type Bus struct {
	mu      sync.Mutex
	events  []Event
	closed  bool
	signal  chan struct{} // buffered, size 1
	updates *stream.Value[[]Event]

	log     pslog.Logger
	metrics *metrics.Metrics
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the bus logger.
func WithLogger(logger pslog.Logger) Option {
	return func(b *Bus) {
		b.log = logger
	}
}

// WithMetrics counts dispatched events.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bus) {
		b.metrics = m
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		events:  make([]Event, 0, 8),
		signal:  make(chan struct{}, 1),
		updates: stream.NewValueWith([]Event{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = pslog.Ctx(context.Background())
	}
	return b
}

// Navigate appends e. Events sent after Close are dropped.
func (b *Bus) Navigate(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.log.Warn("navigation after close dropped", "event", e.String())
		return
	}
	b.events = append(b.events, e)
	b.updates.Publish(b.snapshot())

	// Signal availability (non-blocking - buffer of 1 coalesces multiple signals)
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Back is Navigate(Back()).
func (b *Bus) Back() {
	b.Navigate(Back())
}

// Pending returns a copy of the queued events in order.
func (b *Bus) Pending() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

// ClearEvents atomically removes and returns every queued event.
// A later call never returns an event returned here.
func (b *Bus) ClearEvents() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	drained := b.events
	b.events = make([]Event, 0, 8)
	if len(drained) > 0 {
		b.updates.Publish([]Event{})
	}
	return drained
}

// Updates streams the pending queue after every change.
func (b *Bus) Updates() *stream.Subscription[[]Event] {
	return b.updates.Subscribe()
}

// Len returns the number of queued events.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Run drains the queue and calls handle for each event in order until ctx
// is done or the bus is closed. Events left when the bus closes are
// dispatched before Run returns.
func (b *Bus) Run(ctx context.Context, handle func(Event)) error {
	for {
		for _, e := range b.ClearEvents() {
			b.log.Debug("navigation dispatched", "event", e.String())
			b.metrics.IncNavigation(e.Kind.String())
			handle(e)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-b.signal:
			if !ok {
				for _, e := range b.ClearEvents() {
					b.metrics.IncNavigation(e.Kind.String())
					handle(e)
				}
				return nil
			}
		}
	}
}

// Close stops accepting events and ends Run and Updates.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.signal)
	b.updates.Close()
}

// snapshot copies the queue. Caller holds b.mu.
func (b *Bus) snapshot() []Event {
	return append([]Event{}, b.events...)
}
