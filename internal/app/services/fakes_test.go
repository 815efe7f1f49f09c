package services_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/placementprep/internal/app/events"
	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/repositories"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
)

// ── companies ───────────────────────────────────────────────────────────────

type fakeCompanies struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*models.Company
	saves   int
	saveErr error
}

func newFakeCompanies(cs ...*models.Company) *fakeCompanies {
	f := &fakeCompanies{byID: map[uuid.UUID]*models.Company{}}
	for _, c := range cs {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		f.byID[c.ID] = c
	}
	return f
}

// clone round-trips through the document codec like the real store does
func clone(c *models.Company) *models.Company {
	raw, err := c.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var out models.Company
	if err := out.UnmarshalJSON(raw); err != nil {
		panic(err)
	}
	out.ID, out.Name, out.Status = c.ID, c.Name, c.Status
	return &out
}

func (f *fakeCompanies) Create(_ context.Context, c *models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	f.byID[c.ID] = clone(c)
	return nil
}

func (f *fakeCompanies) GetByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrCompanyNotFound
	}
	return clone(c), nil
}

func (f *fakeCompanies) List(_ context.Context, filter repositories.CompanyFilter) ([]*models.Company, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Company
	for _, c := range f.byID {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (f *fakeCompanies) Save(_ context.Context, c *models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.byID[c.ID]; !ok {
		return apperrors.ErrCompanyNotFound
	}
	f.saves++
	f.byID[c.ID] = clone(c)
	return nil
}

func (f *fakeCompanies) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrCompanyNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCompanies) CountByStatus(_ context.Context, status models.CompanyStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.byID {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeCompanies) get(id uuid.UUID) *models.Company {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

// ── submissions ─────────────────────────────────────────────────────────────

type fakeSubmissions struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Submission
}

func newFakeSubmissions(subs ...*models.Submission) *fakeSubmissions {
	f := &fakeSubmissions{byID: map[uuid.UUID]*models.Submission{}}
	for _, s := range subs {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.Status == "" {
			s.Status = models.SubmissionPending
		}
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSubmissions) Create(_ context.Context, s *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	s.Status = models.SubmissionPending
	s.SubmittedAt = time.Now()
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSubmissions) GetByID(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrSubmissionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissions) List(_ context.Context, status *models.SubmissionStatus) ([]*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Submission
	for _, s := range f.byID {
		if status == nil || s.Status == *status {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeSubmissions) MarkApproved(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return apperrors.ErrSubmissionNotFound
	}
	s.Status = models.SubmissionApproved
	s.ApprovedAt = &at
	return nil
}

func (f *fakeSubmissions) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrSubmissionNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSubmissions) CountByStatus(_ context.Context, status models.SubmissionStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.byID {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubmissions) get(id uuid.UUID) *models.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

// ── notifications ───────────────────────────────────────────────────────────

type batchKey struct {
	company uuid.UUID
	typ     models.NotificationType
}

type fakeNotifications struct {
	mu       sync.Mutex
	items    []*models.Notification
	batches  map[batchKey]bool
	batchErr error
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{batches: map[batchKey]bool{}}
}

func (f *fakeNotifications) ExistsForCompany(_ context.Context, companyID uuid.UUID, t models.NotificationType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batches[batchKey{companyID, t}], nil
}

func (f *fakeNotifications) CreateBatch(_ context.Context, companyID uuid.UUID, t models.NotificationType, items []*models.Notification) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.batchErr != nil {
		return false, f.batchErr
	}
	key := batchKey{companyID, t}
	if f.batches[key] {
		return false, nil
	}
	f.batches[key] = true
	for _, n := range items {
		n.ID = uuid.New()
		n.CreatedAt = time.Now()
		f.items = append(f.items, n)
	}
	return true, nil
}

func (f *fakeNotifications) ListForUser(_ context.Context, userID string, limit uint64) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for i := len(f.items) - 1; i >= 0 && uint64(len(out)) < limit; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeNotifications) find(userID string, id uuid.UUID) (int, error) {
	for i, n := range f.items {
		if n.ID == id && n.UserID == userID {
			return i, nil
		}
	}
	return -1, apperrors.ErrNotificationNotFound
}

func (f *fakeNotifications) GetByID(_ context.Context, userID string, id uuid.UUID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(userID, id)
	if err != nil {
		return nil, err
	}
	return f.items[i], nil
}

func (f *fakeNotifications) UnreadCount(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, it := range f.items {
		if it.UserID == userID && !it.IsSeen {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkSeen(_ context.Context, userID string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(userID, id)
	if err != nil {
		return err
	}
	f.items[i].IsSeen = true
	return nil
}

func (f *fakeNotifications) MarkAllSeen(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, it := range f.items {
		if it.UserID == userID && !it.IsSeen {
			it.IsSeen = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) Delete(_ context.Context, userID string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(userID, id)
	if err != nil {
		return err
	}
	f.items = append(f.items[:i], f.items[i+1:]...)
	return nil
}

func (f *fakeNotifications) Clear(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var n int64
	for _, it := range f.items {
		if it.UserID == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

func (f *fakeNotifications) PruneSeenBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var n int64
	for _, it := range f.items {
		if it.IsSeen && it.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

func (f *fakeNotifications) forCompany(companyID uuid.UUID) []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, it := range f.items {
		if it.CompanyID != nil && *it.CompanyID == companyID {
			out = append(out, it)
		}
	}
	return out
}

// ── users ───────────────────────────────────────────────────────────────────

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User
	ids  []string
}

func newFakeUsers(ids ...string) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for _, id := range ids {
		f.byID[id] = &models.User{ID: id, Email: id + "@college.edu", RoleType: models.RoleStudent}
		f.ids = append(f.ids, id)
	}
	return f
}

func (f *fakeUsers) Upsert(_ context.Context, u *models.User) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.RoleType == "" {
		u.RoleType = models.RoleStudent
	}
	if existing, ok := f.byID[u.ID]; ok {
		existing.Email, existing.Username = u.Email, u.Username
		u.RoleType = existing.RoleType
		u.CreatedAt = existing.CreatedAt
		return false, nil
	}
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	f.ids = append(f.ids, u.ID)
	return true, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ListIDs(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...), nil
}

func (f *fakeUsers) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.ids)), nil
}

// ── comments ────────────────────────────────────────────────────────────────

type fakeComments struct {
	mu    sync.Mutex
	items []*models.Comment
}

func (f *fakeComments) Create(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	f.items = append(f.items, c)
	return nil
}

func (f *fakeComments) GetByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrCommentNotFound
}

func (f *fakeComments) ListByCompany(_ context.Context, companyID uuid.UUID, offset, limit uint64) ([]*models.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*models.Comment
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].CompanyID == companyID {
			all = append(all, f.items[i])
		}
	}
	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return nil, total, nil
	}
	end := offset + limit
	if end > uint64(len(all)) {
		end = uint64(len(all))
	}
	return all[offset:end], total, nil
}

func (f *fakeComments) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrCommentNotFound
}

// ── collaborators ───────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type failingSigner struct{}

func (failingSigner) SignedURL(context.Context, string, time.Duration) (string, error) {
	return "", errors.New("bucket unreachable")
}

type staticSigner struct{}

func (staticSigner) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.test/" + key + "?sig=x", nil
}

type recordingPusher struct {
	mu    sync.Mutex
	users []string
}

func (p *recordingPusher) SendToUser(userID, _ string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, userID)
}

type recordingNotifier struct {
	mu     sync.Mutex
	emails []string
}

func (n *recordingNotifier) SendWelcome(email, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, email)
}
