package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/repository"
)

var ErrNotOrganizer = errors.New("user is not an organizer")

type AdminUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindPendingOrganizers(ctx context.Context) ([]domain.User, error)
	SetActive(ctx context.Context, id uint, active bool, verifiedAt time.Time) (domain.User, error)
}

type AdminEventRepository interface {
	FindAll(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error)
	FindPendingVerification(ctx context.Context) ([]domain.Event, error)
	SetVerification(ctx context.Context, id uint, verified bool, status string, verifiedAt time.Time) (domain.Event, error)
}

// StatsCache holds a recently computed dashboard between requests.
type StatsCache interface {
	Get(ctx context.Context, key string) (domain.DashboardStats, bool)
	Set(ctx context.Context, key string, stats domain.DashboardStats)
}

// AdminService owns the verification workflow. Admin-only access is
// enforced at the routing layer; everything here assumes an admin caller.
type AdminService struct {
	users    AdminUserRepository
	events   AdminEventRepository
	cache    StatsCache
	notifier Notifier
	now      func() time.Time
}

func NewAdminService(users AdminUserRepository, events AdminEventRepository, cache StatsCache, notifier Notifier) *AdminService {
	return &AdminService{
		users:    users,
		events:   events,
		cache:    cache,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *AdminService) ListPendingOrganizers(ctx context.Context) ([]domain.User, error) {
	organizers, err := s.users.FindPendingOrganizers(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindPendingOrganizers -> %w", err)
	}

	return organizers, nil
}

func (s *AdminService) ApproveOrganizer(ctx context.Context, userID uint) (domain.User, error) {
	return s.decideOrganizer(ctx, userID, true, "user.organizer_approved")
}

func (s *AdminService) RejectOrganizer(ctx context.Context, userID uint) (domain.User, error) {
	return s.decideOrganizer(ctx, userID, false, "user.organizer_rejected")
}

func (s *AdminService) decideOrganizer(ctx context.Context, userID uint, approve bool, routingKey string) (domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	if user.Role != domain.RoleOrganizer {
		return domain.User{}, ErrNotOrganizer
	}

	updated, err := s.users.SetActive(ctx, userID, approve, s.now())
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.SetActive -> %w", err)
	}

	s.publish(routingKey, map[string]interface{}{
		"user_id": updated.ID,
		"email":   updated.Email,
	})

	return updated, nil
}

func (s *AdminService) ListPendingEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.FindPendingVerification(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.events.FindPendingVerification -> %w", err)
	}

	return events, nil
}

func (s *AdminService) ApproveEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := s.events.SetVerification(ctx, eventID, true, domain.EventStatusUpcoming, s.now())
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.events.SetVerification -> %w", err)
	}

	s.publish("event.approved", map[string]interface{}{
		"event_id":        event.ID,
		"organizer_email": event.OrganizerEmail,
		"title":           event.Title,
	})

	return event, nil
}

func (s *AdminService) RejectEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := s.events.SetVerification(ctx, eventID, false, domain.EventStatusRejected, s.now())
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.events.SetVerification -> %w", err)
	}

	s.publish("event.rejected", map[string]interface{}{
		"event_id":        event.ID,
		"organizer_email": event.OrganizerEmail,
		"title":           event.Title,
	})

	return event, nil
}

// GetDashboard serves the aggregated stats, recomputing on cache miss.
func (s *AdminService) GetDashboard(ctx context.Context, filter domain.DashboardFilter) (domain.DashboardStats, error) {
	key := dashboardCacheKey(filter)
	if stats, ok := s.cache.Get(ctx, key); ok {
		return stats, nil
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.users.FindAll -> %w", err)
	}

	events, err := s.events.FindAll(ctx, repository.EventFilter{})
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.events.FindAll -> %w", err)
	}

	stats := AggregateDashboard(users, events, filter, s.now())
	s.cache.Set(ctx, key, stats)

	return stats, nil
}

func dashboardCacheKey(filter domain.DashboardFilter) string {
	return fmt.Sprintf("dashboard:%s:%s:%s", filter.Timeframe, filter.Category, filter.City)
}

func (s *AdminService) publish(routingKey string, payload any) {
	if err := s.notifier.Publish(routingKey, payload); err != nil {
		zap.L().Warn("failed to publish notification",
			zap.String("routing_key", routingKey), zap.Error(err))
	}
}
