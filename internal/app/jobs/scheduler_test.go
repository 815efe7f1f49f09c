package jobs_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/events"
	"github.com/yigit/placementprep/internal/app/jobs"
	"github.com/yigit/placementprep/internal/app/models"
)

type staticSource struct {
	companies []*models.Company
	err       error
}

func (s staticSource) ListApprovedWithoutBatch(context.Context, models.NotificationType, uint64) ([]*models.Company, error) {
	return s.companies, s.err
}

type countingNotifier struct {
	mu       sync.Mutex
	seen     map[uuid.UUID]int
	inFlight int32
	peak     int32
	fail     uuid.UUID
	pruned   time.Duration
}

func (n *countingNotifier) FanOutNewCompany(_ context.Context, e events.Event) error {
	cur := atomic.AddInt32(&n.inFlight, 1)
	defer atomic.AddInt32(&n.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&n.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&n.peak, peak, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen[e.CompanyID]++
	if e.CompanyID == n.fail {
		return errors.New("store down")
	}
	return nil
}

func (n *countingNotifier) PruneSeen(_ context.Context, olderThan time.Duration) (int64, error) {
	n.pruned = olderThan
	return 0, nil
}

func companies(n int) []*models.Company {
	out := make([]*models.Company, n)
	for i := range out {
		out[i] = &models.Company{ID: uuid.New(), Name: "Co", Status: models.CompanyApproved}
	}
	return out
}

func TestReconcile_DrivesEveryCompanyWithBoundedConcurrency(t *testing.T) {
	cs := companies(10)
	notifier := &countingNotifier{seen: map[uuid.UUID]int{}, fail: cs[3].ID}
	s := jobs.NewScheduler(staticSource{companies: cs}, notifier, jobs.Config{
		ReconcileSchedule: "@every 1h", PruneSchedule: "@daily", Workers: 3, FanOutTimeout: time.Second,
	}, zerolog.Nop())

	n, err := s.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if n != 10 {
		t.Errorf("attempted = %d, want 10", n)
	}
	for _, c := range cs {
		if notifier.seen[c.ID] != 1 {
			t.Errorf("company %s driven %d times", c.ID, notifier.seen[c.ID])
		}
	}
	if peak := atomic.LoadInt32(&notifier.peak); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestReconcile_SourceError(t *testing.T) {
	s := jobs.NewScheduler(staticSource{err: errors.New("db down")}, &countingNotifier{seen: map[uuid.UUID]int{}},
		jobs.Config{ReconcileSchedule: "@every 1h", PruneSchedule: "@daily"}, zerolog.Nop())
	if _, err := s.Reconcile(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestStartStop(t *testing.T) {
	s := jobs.NewScheduler(staticSource{}, &countingNotifier{seen: map[uuid.UUID]int{}},
		jobs.Config{ReconcileSchedule: "@every 1h", PruneSchedule: "@daily", Retention: time.Hour}, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()

	bad := jobs.NewScheduler(staticSource{}, &countingNotifier{}, jobs.Config{ReconcileSchedule: "not a schedule", PruneSchedule: "@daily"}, zerolog.Nop())
	if err := bad.Start(); err == nil {
		t.Error("invalid schedule accepted")
	}
}
