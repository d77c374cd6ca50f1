// Package ops provides a fire-and-forget publisher for operational audit
// events (superseded and withdrawn evaluations, replays, collaborator circuit
// changes). Track never blocks the caller: events are sampled, buffered and
// written by a background goroutine, and dropped when the buffer is full or
// the store circuit is open.
package ops

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "trustgate/pkg/platform/audit"
	"trustgate/pkg/platform/circuit"
)

const (
	dropSampled     = "sampled"
	dropBufferFull  = "buffer_full"
	dropCircuitOpen = "circuit_open"
	dropClosed      = "closed"
)

// Tracker emits ops events asynchronously.
type Tracker struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	sampler *Sampler
	breaker *circuit.Breaker
	events  chan audit.Event
	now     func() time.Time

	// mu guards closed; Track holds the read lock across the send so Close
	// cannot close events underneath it.
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures the Tracker.
type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

func WithSampler(s *Sampler) Option {
	return func(t *Tracker) {
		if s != nil {
			t.sampler = s
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(t *Tracker) {
		if b != nil {
			t.breaker = b
		}
	}
}

func WithBufferSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.events = make(chan audit.Event, n)
		}
	}
}

// New starts a tracker writing to store. Call Close to drain and stop it.
func New(store audit.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:   store,
		logger:  slog.Default(),
		sampler: NewSampler(1),
		breaker: circuit.New("audit_ops", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(1)),
		events:  make(chan audit.Event, 1024),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.wg.Add(1)
	go t.loop()
	return t
}

// Track enqueues an ops event without blocking. Events tracked after Close
// are dropped.
func (t *Tracker) Track(ctx context.Context, event audit.OpsEvent) {
	if !t.sampler.ShouldSample(event.Action) {
		t.metrics.incDropped(dropSampled)
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = t.now()
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.metrics.incDropped(dropClosed)
		return
	}
	select {
	case t.events <- event.ToEvent():
	default:
		t.metrics.incDropped(dropBufferFull)
		t.logger.WarnContext(ctx, "ops audit buffer full, dropping event", "action", event.Action)
	}
}

// Close stops accepting events and waits for buffered ones to be written.
func (t *Tracker) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.events)
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) loop() {
	defer t.wg.Done()
	for event := range t.events {
		t.persist(event)
	}
}

func (t *Tracker) persist(event audit.Event) {
	if !t.breaker.Allow() {
		t.metrics.incDropped(dropCircuitOpen)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := t.store.Append(ctx, event); err != nil {
		t.metrics.incPersistFailures()
		_, change := t.breaker.RecordFailure()
		if change.Opened {
			t.metrics.setCircuitOpen(true)
			t.logger.Error("ops audit store circuit opened", "error", err)
		}
		return
	}
	t.metrics.incTracked()
	if _, change := t.breaker.RecordSuccess(); change.Closed {
		t.metrics.setCircuitOpen(false)
		t.logger.Info("ops audit store circuit closed")
	}
}
