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

var (
	ErrEventNotFound      = repository.ErrEventNotFound
	ErrEventFull          = repository.ErrEventFull
	ErrAlreadyRegistered  = repository.ErrAlreadyRegistered
	ErrNotEventOwner      = errors.New("caller is not the event organizer")
	ErrNotParticipant     = errors.New("must register for the event before reviewing")
	ErrEventNotEnded      = errors.New("event has not ended yet")
	ErrEventNotOpen       = errors.New("event is not open for registration")
	ErrInvalidEventTimes  = errors.New("end time must be after start time")
	ErrInvalidEventDate   = errors.New("invalid event date or time format")
	ErrInvalidCategory    = errors.New("unknown event category")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrCommentTooShort    = errors.New("comment must be at least 10 characters")
	ErrInvalidTimeframe   = errors.New("unknown timeframe")
	ErrInvalidMaxCapacity = errors.New("max participants must be positive")
)

// MinReviewCommentLength is the product-wide minimum. The original client
// hinted at 100 in one place while validating 10 everywhere else; 10 is
// the enforced rule.
const MinReviewCommentLength = 10

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	UpdateImagePath(ctx context.Context, id uint, path string) error
	Delete(ctx context.Context, id uint) error
	AddParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	IsParticipant(ctx context.Context, eventID, userID uint) (bool, error)
	SaveReview(ctx context.Context, review domain.Review) (domain.Review, error)
}

// ImageStore persists uploaded event images and returns a servable path.
type ImageStore interface {
	SaveDataURL(dataURL string) (string, error)
}

// ListFilter is the caller-facing variant of repository.EventFilter,
// with the timeframe still symbolic.
type ListFilter struct {
	OrganizerID uint
	Category    string
	City        string
	Search      string
	Timeframe   string // "", "upcoming", "past", "today", "week" or "month"
	SortByDate  bool
}

type EventService struct {
	repo     EventRepository
	images   ImageStore
	notifier Notifier
	now      func() time.Time
}

func NewEventService(repo EventRepository, images ImageStore, notifier Notifier) *EventService {
	return &EventService{
		repo:     repo,
		images:   images,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateEvent validates the fields, stamps the organizer's identity and
// stores the event as pending until an admin verifies it.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, organizer domain.User) (domain.Event, error) {
	startsAt, endsAt, err := parseEventWindow(event.Date, event.StartTime, event.EndTime)
	if err != nil {
		return domain.Event{}, err
	}
	if !domain.IsValidCategory(event.Category) {
		return domain.Event{}, ErrInvalidCategory
	}
	if event.MaxParticipants <= 0 {
		return domain.Event{}, ErrInvalidMaxCapacity
	}

	event.OrganizerID = organizer.ID
	event.OrganizerName = organizer.FullName()
	event.OrganizerEmail = organizer.Email
	event.StartsAt = startsAt
	event.EndsAt = endsAt
	event.Status = domain.EventStatusPending
	event.IsVerified = false
	event.CurrentParticipants = 0
	event.AverageRating = 0
	event.TotalReviews = 0

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// UpdateEvent rejects callers other than the owning organizer. Status and
// verification fields are admin-only and never touched here.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, callerID uint, fields domain.Event) (domain.Event, error) {
	stored, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if stored.OrganizerID != callerID {
		return domain.Event{}, ErrNotEventOwner
	}

	startsAt, endsAt, err := parseEventWindow(fields.Date, fields.StartTime, fields.EndTime)
	if err != nil {
		return domain.Event{}, err
	}
	if !domain.IsValidCategory(fields.Category) {
		return domain.Event{}, ErrInvalidCategory
	}
	if fields.MaxParticipants <= 0 {
		return domain.Event{}, ErrInvalidMaxCapacity
	}

	stored.Title = fields.Title
	stored.Date = fields.Date
	stored.StartTime = fields.StartTime
	stored.EndTime = fields.EndTime
	stored.StartsAt = startsAt
	stored.EndsAt = endsAt
	stored.Venue = fields.Venue
	stored.City = fields.City
	stored.Category = fields.Category
	stored.Description = fields.Description
	stored.Tags = fields.Tags
	stored.MaxParticipants = fields.MaxParticipants

	updated, err := s.repo.Update(ctx, stored)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, eventID, callerID uint) error {
	stored, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if stored.OrganizerID != callerID {
		return ErrNotEventOwner
	}

	if err = s.repo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	event.Status = event.EffectiveStatus(s.now())

	return event, nil
}

// ListEvents returns verified events matching the filter. Organizers
// listing their own events also get the unverified ones; caller is the
// zero User for anonymous requests.
func (s *EventService) ListEvents(ctx context.Context, filter ListFilter, caller domain.User) ([]domain.Event, error) {
	repoFilter := repository.EventFilter{
		OrganizerID:  filter.OrganizerID,
		Category:     filter.Category,
		City:         filter.City,
		Search:       filter.Search,
		VerifiedOnly: true,
		OrderByStart: filter.SortByDate,
	}

	ownListing := filter.OrganizerID != 0 && filter.OrganizerID == caller.ID
	if ownListing || caller.Role == domain.RoleAdmin {
		repoFilter.VerifiedOnly = false
	}

	if err := applyTimeframe(&repoFilter, filter.Timeframe, s.now()); err != nil {
		return nil, err
	}

	events, err := s.repo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	now := s.now()
	for i := range events {
		events[i].Status = events[i].EffectiveStatus(now)
	}

	return events, nil
}

// RegisterParticipant appends the user to the event. Capacity and
// duplicate checks run transactionally in the storage layer.
func (s *EventService) RegisterParticipant(ctx context.Context, eventID uint, user domain.User) (domain.Participant, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !event.IsVerified || event.Status == domain.EventStatusRejected {
		return domain.Participant{}, ErrEventNotOpen
	}
	if event.HasEnded(s.now()) {
		return domain.Participant{}, ErrEventNotOpen
	}

	participant, err := s.repo.AddParticipant(ctx, domain.Participant{
		EventID:      eventID,
		UserID:       user.ID,
		Name:         user.FullName(),
		Email:        user.Email,
		Phone:        user.Phone,
		RegisteredAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, ErrEventFull) || errors.Is(err, ErrAlreadyRegistered) {
			return domain.Participant{}, err
		}

		return domain.Participant{}, fmt.Errorf("s.repo.AddParticipant -> %w", err)
	}

	if err := s.notifier.Publish("event.registration", map[string]interface{}{
		"event_id": eventID,
		"user_id":  user.ID,
		"title":    event.Title,
	}); err != nil {
		zap.L().Warn("failed to publish registration notification", zap.Error(err))
	}

	return participant, nil
}

// SubmitReview upserts the caller's review once the event has ended.
// A later submission replaces the earlier one; the event's average
// rating and review count are recomputed on every write.
func (s *EventService) SubmitReview(ctx context.Context, eventID uint, user domain.User, rating int, comment string) (domain.Review, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, ErrInvalidRating
	}
	if len(comment) < MinReviewCommentLength {
		return domain.Review{}, ErrCommentTooShort
	}

	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !event.HasEnded(s.now()) {
		return domain.Review{}, ErrEventNotEnded
	}

	isParticipant, err := s.repo.IsParticipant(ctx, eventID, user.ID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.IsParticipant -> %w", err)
	}
	if !isParticipant {
		return domain.Review{}, ErrNotParticipant
	}

	now := s.now()
	review, err := s.repo.SaveReview(ctx, domain.Review{
		EventID:   eventID,
		UserID:    user.ID,
		UserName:  user.FullName(),
		UserEmail: user.Email,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.SaveReview -> %w", err)
	}

	return review, nil
}

// AttachImage decodes a data-URL upload, stores it and records the path.
func (s *EventService) AttachImage(ctx context.Context, eventID, callerID uint, dataURL string) (string, error) {
	stored, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if stored.OrganizerID != callerID {
		return "", ErrNotEventOwner
	}

	path, err := s.images.SaveDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("s.images.SaveDataURL -> %w", err)
	}

	if err = s.repo.UpdateImagePath(ctx, eventID, path); err != nil {
		return "", fmt.Errorf("s.repo.UpdateImagePath -> %w", err)
	}

	return path, nil
}

func parseEventWindow(date, startTime, endTime string) (time.Time, time.Time, error) {
	startsAt, err := time.Parse("2006-01-02 15:04", date+" "+startTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidEventDate, err)
	}

	endsAt, err := time.Parse("2006-01-02 15:04", date+" "+endTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidEventDate, err)
	}

	if !endsAt.After(startsAt) {
		return time.Time{}, time.Time{}, ErrInvalidEventTimes
	}

	return startsAt, endsAt, nil
}

func applyTimeframe(filter *repository.EventFilter, timeframe string, now time.Time) error {
	switch timeframe {
	case "":
	case "upcoming":
		filter.StartsAfter = now
	case "past":
		// Past means the event already ended.
		filter.EndsBefore = now
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		filter.StartsAfter = start
		filter.StartsBefore = start.AddDate(0, 0, 1)
	case "week":
		filter.StartsAfter = now
		filter.StartsBefore = now.AddDate(0, 0, 7)
	case "month":
		filter.StartsAfter = now
		filter.StartsBefore = now.AddDate(0, 1, 0)
	default:
		return ErrInvalidTimeframe
	}

	return nil
}
