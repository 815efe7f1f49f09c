// Package webhook delivers best-effort JSON notifications to an outbound
// sink (the mailer that sends welcome emails). Delivery failures are logged
// and never reach the caller.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// WelcomeEvent is the payload sent when a user is seen for the first time
type WelcomeEvent struct {
	Event    string    `json:"event"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	SentAt   time.Time `json:"sentAt"`
}

// Notifier sends outbound notifications
type Notifier interface {
	// SendWelcome queues a welcome notification and returns immediately
	SendWelcome(email, username string)
}

// Config holds the sink settings
type Config struct {
	WelcomeURL    string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// HTTPNotifier posts JSON to the configured URL, throttled by a token bucket
type HTTPNotifier struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewHTTPNotifier creates an HTTPNotifier
func NewHTTPNotifier(config Config, logger zerolog.Logger) *HTTPNotifier {
	if config.Burst < 1 {
		config.Burst = 1
	}
	return &HTTPNotifier{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), config.Burst),
		logger:  logger.With().Str("component", "webhook").Logger(),
	}
}

// SendWelcome implements Notifier. The POST runs on its own goroutine with
// a context bounded by the configured timeout.
func (n *HTTPNotifier) SendWelcome(email, username string) {
	if n.config.WelcomeURL == "" {
		n.logger.Warn().Str("email", email).Msg("Welcome webhook not configured - notification not sent")
		return
	}

	event := WelcomeEvent{Event: "user.welcome", Email: email, Username: username, SentAt: time.Now().UTC()}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.config.Timeout)
		defer cancel()
		if err := n.Post(ctx, n.config.WelcomeURL, event); err != nil {
			n.logger.Error().Err(err).Str("email", email).Msg("Welcome webhook failed")
		}
	}()
}

// Post waits for a rate-limit token, then sends payload as JSON to url.
// Any non-2xx response is an error.
func (n *HTTPNotifier) Post(ctx context.Context, url string, payload any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sink responded %d", resp.StatusCode)
	}
	return nil
}

// Notifiers sends to every configured notifier
type Notifiers []Notifier

// SendWelcome implements Notifier
func (ns Notifiers) SendWelcome(email, username string) {
	for _, n := range ns {
		n.SendWelcome(email, username)
	}
}
