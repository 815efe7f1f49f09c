package events_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/events"
)

func TestPublish_RunsEverySubscriber(t *testing.T) {
	d := events.NewDispatcher(nil, time.Second, zerolog.Nop())
	var calls atomic.Int32
	var got events.Event
	d.Subscribe(events.CompanyApproved, func(_ context.Context, e events.Event) error {
		got = e
		calls.Add(1)
		return nil
	})
	d.Subscribe(events.CompanyApproved, func(context.Context, events.Event) error {
		calls.Add(1)
		return errors.New("logged, not returned")
	})
	d.Subscribe("other", func(context.Context, events.Event) error {
		t.Error("handler for another event ran")
		return nil
	})

	id := uuid.New()
	d.Publish(context.Background(), events.Event{Name: events.CompanyApproved, CompanyID: id, CompanyName: "Acme"})
	d.Wait()

	if calls.Load() != 2 {
		t.Errorf("calls = %d", calls.Load())
	}
	if got.CompanyID != id || got.OccurredAt.IsZero() {
		t.Errorf("event = %+v", got)
	}
}

func TestPublish_HandlerOutlivesRequestContext(t *testing.T) {
	d := events.NewDispatcher(nil, time.Second, zerolog.Nop())
	var ctxErr atomic.Value
	d.Subscribe(events.CompanyApproved, func(ctx context.Context, _ events.Event) error {
		time.Sleep(20 * time.Millisecond)
		ctxErr.Store(ctx.Err() == nil)
		return nil
	})

	reqCtx, cancel := context.WithCancel(context.Background())
	d.Publish(reqCtx, events.Event{Name: events.CompanyApproved})
	cancel()
	d.Wait()

	if alive, _ := ctxErr.Load().(bool); !alive {
		t.Error("handler context was cancelled with the request")
	}
}

func TestPublish_HandlerTimeoutAndPanic(t *testing.T) {
	d := events.NewDispatcher(nil, 10*time.Millisecond, zerolog.Nop())
	timedOut := make(chan bool, 1)
	d.Subscribe(events.CompanyApproved, func(ctx context.Context, _ events.Event) error {
		select {
		case <-ctx.Done():
			timedOut <- true
		case <-time.After(time.Second):
			timedOut <- false
		}
		return ctx.Err()
	})
	d.Subscribe(events.CompanyApproved, func(context.Context, events.Event) error {
		panic("boom")
	})

	d.Publish(context.Background(), events.Event{Name: events.CompanyApproved})
	d.Wait()

	if !<-timedOut {
		t.Error("handler context not bounded by timeout")
	}
}

func TestPublish_SlowRedisDoesNotBlockCaller(t *testing.T) {
	// Accepts connections and never answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	rdb := redis.NewClient(&redis.Options{
		Addr:                  ln.Addr().String(),
		ReadTimeout:           300 * time.Millisecond,
		ContextTimeoutEnabled: true,
		MaxRetries:            -1,
	})
	defer rdb.Close()

	d := events.NewDispatcher(rdb, time.Second, zerolog.Nop())
	var handled atomic.Bool
	d.Subscribe(events.CompanyApproved, func(context.Context, events.Event) error {
		handled.Store(true)
		return nil
	})

	start := time.Now()
	d.Publish(context.Background(), events.Event{Name: events.CompanyApproved, CompanyID: uuid.New()})
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Publish blocked for %v", elapsed)
	}

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(events.MirrorTimeout + time.Second):
		t.Fatal("mirror publish was not bounded")
	}
	if !handled.Load() {
		t.Error("handler did not run")
	}
}
