package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/events"
	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
)

func newNotificationService(n *fakeNotifications, u *fakeUsers, p services.Pusher) services.NotificationService {
	return services.NewNotificationService(n, u, p, nil, time.Minute, zerolog.Nop())
}

func approvedEvent() events.Event {
	return events.Event{
		Name:        events.CompanyApproved,
		CompanyID:   uuid.New(),
		CompanyName: "Acme Corp",
		OccurredAt:  time.Now(),
	}
}

// ── fan-out ─────────────────────────────────────────────────────────────────

func TestFanOut_OneNotificationPerUser(t *testing.T) {
	store := newFakeNotifications()
	pusher := &recordingPusher{}
	svc := newNotificationService(store, newFakeUsers("u1", "u2", "u3"), pusher)
	e := approvedEvent()

	if err := svc.FanOutNewCompany(context.Background(), e); err != nil {
		t.Fatalf("FanOutNewCompany: %v", err)
	}

	got := store.forCompany(e.CompanyID)
	if len(got) != 3 {
		t.Fatalf("notifications = %d, want 3", len(got))
	}
	for _, n := range got {
		if n.Type != models.NotificationNewCompany || n.IsSeen {
			t.Errorf("notification = %+v", n)
		}
	}
	if len(pusher.users) != 3 {
		t.Errorf("pushed to %v", pusher.users)
	}
}

func TestFanOut_Idempotent(t *testing.T) {
	store := newFakeNotifications()
	svc := newNotificationService(store, newFakeUsers("u1", "u2"), nil)
	e := approvedEvent()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.FanOutNewCompany(context.Background(), e)
		}()
	}
	wg.Wait()
	if err := svc.FanOutNewCompany(context.Background(), e); err != nil {
		t.Fatalf("repeat: %v", err)
	}

	if got := len(store.forCompany(e.CompanyID)); got != 2 {
		t.Errorf("notifications = %d, want exactly one per user", got)
	}
}

func TestFanOut_FailureIsRetryable(t *testing.T) {
	store := newFakeNotifications()
	store.batchErr = errors.New("connection reset")
	svc := newNotificationService(store, newFakeUsers("u1"), nil)
	e := approvedEvent()

	if err := svc.FanOutNewCompany(context.Background(), e); err == nil {
		t.Fatal("expected error from failing store")
	}
	if len(store.forCompany(e.CompanyID)) != 0 {
		t.Fatal("failed fan-out left notifications behind")
	}

	store.batchErr = nil
	if err := svc.FanOutNewCompany(context.Background(), e); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(store.forCompany(e.CompanyID)) != 1 {
		t.Error("retry did not deliver")
	}
}

// ── inbox ───────────────────────────────────────────────────────────────────

func TestInbox(t *testing.T) {
	store := newFakeNotifications()
	svc := newNotificationService(store, newFakeUsers("u1", "u2"), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.FanOutNewCompany(ctx, approvedEvent()); err != nil {
			t.Fatalf("fan-out: %v", err)
		}
	}

	inbox, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(inbox.Notifications) != 3 || inbox.UnreadCount != 3 {
		t.Fatalf("inbox = %d items, %d unread", len(inbox.Notifications), inbox.UnreadCount)
	}

	first := inbox.Notifications[0].ID
	if err := svc.MarkSeen(ctx, "u1", first); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if n, _ := svc.UnreadCount(ctx, "u1"); n != 2 {
		t.Errorf("unread = %d, want 2", n)
	}
	if err := svc.MarkSeen(ctx, "u2", first); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("other user's notification: err = %v", err)
	}
	if err := svc.MarkSeen(ctx, "u1", "nope"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("malformed id: err = %v", err)
	}

	if err := svc.MarkAllSeen(ctx, "u1"); err != nil {
		t.Fatalf("MarkAllSeen: %v", err)
	}
	if n, _ := svc.UnreadCount(ctx, "u1"); n != 0 {
		t.Errorf("unread after mark all = %d", n)
	}
	if n, _ := svc.UnreadCount(ctx, "u2"); n != 3 {
		t.Errorf("u2 unread = %d, want untouched", n)
	}

	if err := svc.Delete(ctx, "u1", first); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, err := svc.Clear(ctx, "u1"); err != nil || n != 2 {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

func TestPruneSeen(t *testing.T) {
	store := newFakeNotifications()
	svc := newNotificationService(store, newFakeUsers("u1"), nil)
	ctx := context.Background()

	_ = svc.FanOutNewCompany(ctx, approvedEvent())
	_ = svc.FanOutNewCompany(ctx, approvedEvent())
	_ = svc.MarkAllSeen(ctx, "u1")
	_ = svc.FanOutNewCompany(ctx, approvedEvent())

	n, err := svc.PruneSeen(ctx, -time.Hour) // cutoff in the future
	if err != nil {
		t.Fatalf("PruneSeen: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned = %d, want 2 seen", n)
	}
	if left, _ := svc.UnreadCount(ctx, "u1"); left != 1 {
		t.Errorf("unread left = %d", left)
	}
}
