package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/events"
	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/pkg/websocket"
)

// InboxLimit caps how many notifications a listing returns
const InboxLimit = 50

// fanOutLockPrefix namespaces the redis keys that serialize fan-outs across instances
const fanOutLockPrefix = "placementprep:fanout:"

// Pusher delivers realtime events to connected users
type Pusher interface {
	SendToUser(userID, eventType string, payload any)
}

// NotificationService defines the interface for notification operations
type NotificationService interface {
	// FanOutNewCompany notifies every known user about an approved company,
	// at most once per company. It has the events.Handler signature.
	FanOutNewCompany(ctx context.Context, e events.Event) error

	List(ctx context.Context, userID string) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkSeen(ctx context.Context, userID, notificationID string) error
	MarkAllSeen(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, notificationID string) error
	Clear(ctx context.Context, userID string) (int64, error)
	PruneSeen(ctx context.Context, olderThan time.Duration) (int64, error)
}

// notificationServiceImpl implements NotificationService
type notificationServiceImpl struct {
	notifications NotificationStore
	users         UserStore
	pusher        Pusher
	rdb           *redis.Client
	lockTTL       time.Duration
	logger        zerolog.Logger
}

var (
	_ websocket.SeenMarker = (*notificationServiceImpl)(nil)
	_ Pusher               = (*websocket.Hub)(nil)
)

// NewNotificationService creates a new NotificationService. pusher and rdb
// may be nil.
func NewNotificationService(
	notifications NotificationStore,
	users UserStore,
	pusher Pusher,
	rdb *redis.Client,
	lockTTL time.Duration,
	logger zerolog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		notifications: notifications,
		users:         users,
		pusher:        pusher,
		rdb:           rdb,
		lockTTL:       lockTTL,
		logger:        logger.With().Str("service", "notification").Logger(),
	}
}

// newCompanyNotification renders the notification a user gets for company
func newCompanyNotification(userID string, e events.Event) *models.Notification {
	companyID := e.CompanyID
	return &models.Notification{
		UserID:    userID,
		Type:      models.NotificationNewCompany,
		Title:     "New company added",
		Message:   fmt.Sprintf("%s has been added to the portal. Check out its interview experiences and preparation material.", e.CompanyName),
		CompanyID: &companyID,
	}
}

// FanOutNewCompany implements the approval fan-out. Failures are logged and
// reported to the caller, which never surfaces them to a user; the
// reconcile job retries companies whose batch was never written.
func (s *notificationServiceImpl) FanOutNewCompany(ctx context.Context, e events.Event) error {
	log := s.logger.With().Str("companyID", e.CompanyID.String()).Logger()

	exists, err := s.notifications.ExistsForCompany(ctx, e.CompanyID, models.NotificationNewCompany)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check existing notifications")
		return err
	}
	if exists {
		log.Debug().Msg("Notifications already sent for company")
		return nil
	}

	release, ok := s.lock(ctx, e.CompanyID.String())
	if !ok {
		log.Debug().Msg("Fan-out already running elsewhere")
		return nil
	}
	defer release()

	userIDs, err := s.users.ListIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users for fan-out")
		return err
	}

	items := make([]*models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		items = append(items, newCompanyNotification(id, e))
	}

	created, err := s.notifications.CreateBatch(ctx, e.CompanyID, models.NotificationNewCompany, items)
	if err != nil {
		log.Error().Err(err).Int("recipients", len(items)).Msg("Failed to create notifications")
		return err
	}
	if !created {
		log.Debug().Msg("Notification batch claimed concurrently")
		return nil
	}

	if s.pusher != nil {
		for _, n := range items {
			s.pusher.SendToUser(n.UserID, websocket.EventNotification, dto.NewNotificationResponse(n))
		}
	}
	log.Info().Int("recipients", len(items)).Msg("New company notifications sent")
	return nil
}

// lock takes the cross-instance fan-out lock when redis is configured.
// Redis errors fall through to the database claim, which is authoritative.
func (s *notificationServiceImpl) lock(ctx context.Context, companyID string) (func(), bool) {
	noop := func() {}
	if s.rdb == nil {
		return noop, true
	}

	key := fanOutLockPrefix + companyID
	ok, err := s.rdb.SetNX(ctx, key, 1, s.lockTTL).Result()
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Fan-out lock unavailable, continuing without it")
		return noop, true
	}
	if !ok {
		return noop, false
	}
	return func() {
		if err := s.rdb.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to release fan-out lock")
		}
	}, true
}

// List returns the latest notifications with the unread counter
func (s *notificationServiceImpl) List(ctx context.Context, userID string) (*dto.NotificationListResponse, error) {
	items, err := s.notifications.ListForUser(ctx, userID, InboxLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	unread, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting notifications: %w", err)
	}
	resp := dto.NewNotificationList(items, unread)
	return &resp, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

func (s *notificationServiceImpl) MarkSeen(ctx context.Context, userID, notificationID string) error {
	id, err := parseID("id", notificationID)
	if err != nil {
		return err
	}
	return s.notifications.MarkSeen(ctx, userID, id)
}

func (s *notificationServiceImpl) MarkAllSeen(ctx context.Context, userID string) error {
	n, err := s.notifications.MarkAllSeen(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("userID", userID).Int64("updated", n).Msg("Marked all notifications seen")
	return nil
}

func (s *notificationServiceImpl) Delete(ctx context.Context, userID, notificationID string) error {
	id, err := parseID("id", notificationID)
	if err != nil {
		return err
	}
	return s.notifications.Delete(ctx, userID, id)
}

func (s *notificationServiceImpl) Clear(ctx context.Context, userID string) (int64, error) {
	return s.notifications.Clear(ctx, userID)
}

// PruneSeen deletes seen notifications older than olderThan
func (s *notificationServiceImpl) PruneSeen(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.notifications.PruneSeenBefore(ctx, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("error pruning notifications: %w", err)
	}
	return n, nil
}
