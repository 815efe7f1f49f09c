// Package events delivers domain events after the write that produced them
// has been persisted. Handlers run on their own goroutines with a bounded
// context, so a slow or failing handler never affects the request that
// raised the event.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Name identifies an event type
type Name string

// CompanyApproved is raised whenever an approved company is saved
const CompanyApproved Name = "company.approved"

// ChannelPrefix namespaces the redis channels events are mirrored to
const ChannelPrefix = "placementprep:events:"

// MirrorTimeout bounds a single redis publish
const MirrorTimeout = 2 * time.Second

// Event is a post-commit domain event
type Event struct {
	Name        Name      `json:"name"`
	CompanyID   uuid.UUID `json:"companyId"`
	CompanyName string    `json:"companyName"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Handler reacts to an event. Returned errors are logged.
type Handler func(ctx context.Context, e Event) error

// Publisher is what services depend on to raise events
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Dispatcher runs in-process handlers and mirrors every event to redis when
// a client is configured
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
	rdb      *redis.Client
	timeout  time.Duration
	wg       sync.WaitGroup
	logger   zerolog.Logger
}

// NewDispatcher creates a Dispatcher. rdb may be nil.
func NewDispatcher(rdb *redis.Client, handlerTimeout time.Duration, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Name][]Handler),
		rdb:      rdb,
		timeout:  handlerTimeout,
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers h for events named name
func (d *Dispatcher) Subscribe(name Name, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Publish hands e to every subscriber and to the redis mirror, then returns
// immediately. Neither uses ctx for cancellation, so both outlive the
// request.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[e.Name]...)
	d.mu.RUnlock()

	for _, h := range handlers {
		d.wg.Add(1)
		go d.run(h, e)
	}

	if d.rdb != nil {
		d.wg.Add(1)
		go d.mirror(context.WithoutCancel(ctx), e)
	}
}

func (d *Dispatcher) run(h Handler, e Event) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Str("event", string(e.Name)).Msg("Event handler panicked")
		}
	}()

	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := h(ctx, e); err != nil {
		d.logger.Error().Err(err).
			Str("event", string(e.Name)).
			Str("companyID", e.CompanyID.String()).
			Msg("Event handler failed")
	}
}

// mirror publishes e on redis for out-of-process consumers (non-fatal)
func (d *Dispatcher) mirror(ctx context.Context, e Event) {
	defer d.wg.Done()

	payload, err := json.Marshal(e)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Failed to encode event for redis")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, MirrorTimeout)
	defer cancel()
	if err := d.rdb.Publish(ctx, ChannelPrefix+string(e.Name), payload).Err(); err != nil {
		d.logger.Warn().Err(err).Str("event", string(e.Name)).Msg("Failed to publish event to redis")
	}
}

// Wait blocks until every in-flight handler has returned
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
