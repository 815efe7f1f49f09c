package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/pkg/webhook"
)

func TestSendWelcome_PostsJSON(t *testing.T) {
	got := make(chan webhook.WelcomeEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev webhook.WelcomeEvent
		_ = json.NewDecoder(r.Body).Decode(&ev)
		got <- ev
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := webhook.NewHTTPNotifier(webhook.Config{
		WelcomeURL: srv.URL, Timeout: time.Second, RatePerSecond: 10, Burst: 1,
	}, zerolog.Nop())
	n.SendWelcome("a@college.edu", "asha")

	select {
	case ev := <-got:
		if ev.Event != "user.welcome" || ev.Email != "a@college.edu" || ev.Username != "asha" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook not delivered")
	}
}

func TestPost_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := webhook.NewHTTPNotifier(webhook.Config{Timeout: time.Second, RatePerSecond: 10}, zerolog.Nop())
	if err := n.Post(context.Background(), srv.URL, map[string]string{"k": "v"}); err == nil {
		t.Error("expected error for 502")
	}
}

func TestPost_TimeoutBounded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	n := webhook.NewHTTPNotifier(webhook.Config{Timeout: 50 * time.Millisecond, RatePerSecond: 10}, zerolog.Nop())
	start := time.Now()
	if err := n.Post(context.Background(), srv.URL, struct{}{}); err == nil {
		t.Error("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("post took %v", elapsed)
	}
}

func TestSendWelcome_UnconfiguredIsNoop(t *testing.T) {
	n := webhook.NewHTTPNotifier(webhook.Config{Timeout: time.Second, RatePerSecond: 1}, zerolog.Nop())
	n.SendWelcome("a@college.edu", "asha")
}
