package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/repository/dao"
)

var (
	ErrEventNotFound     = dao.ErrEventNotFound
	ErrEventFull         = dao.ErrEventFull
	ErrAlreadyRegistered = dao.ErrAlreadyRegistered
)

// EventFilter narrows ListEvents. Zero values mean "no filter".
type EventFilter struct {
	OrganizerID  uint
	Category     string
	City         string
	Search       string
	VerifiedOnly bool
	StartsAfter  time.Time
	StartsBefore time.Time
	EndsBefore   time.Time
	OrderByStart bool
}

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context, query dao.EventQuery) ([]dao.Event, error)
	FindPendingVerification(ctx context.Context) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	UpdateImagePath(ctx context.Context, id uint, path string) error
	SetVerification(ctx context.Context, id uint, verified bool, status string, verifiedAt time.Time) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
	InsertParticipant(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	FindParticipant(ctx context.Context, eventID, userID uint) (dao.Participant, error)
	UpsertReview(ctx context.Context, review dao.Review) (dao.Review, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx, dao.EventQuery{
		OrganizerID:  filter.OrganizerID,
		Category:     filter.Category,
		City:         filter.City,
		Search:       filter.Search,
		VerifiedOnly: filter.VerifiedOnly,
		StartsAfter:  filter.StartsAfter,
		StartsBefore: filter.StartsBefore,
		EndsBefore:   filter.EndsBefore,
		OrderByStart: filter.OrderByStart,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) FindPendingVerification(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindPendingVerification(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPendingVerification -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) UpdateImagePath(ctx context.Context, id uint, path string) error {
	if err := r.dao.UpdateImagePath(ctx, id, path); err != nil {
		return fmt.Errorf("r.dao.UpdateImagePath -> %w", err)
	}

	return nil
}

func (r *EventRepository) SetVerification(ctx context.Context, id uint, verified bool, status string, verifiedAt time.Time) (domain.Event, error) {
	updated, err := r.dao.SetVerification(ctx, id, verified, status, verifiedAt)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.SetVerification -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	created, err := r.dao.InsertParticipant(ctx, dao.Participant{
		EventID:      participant.EventID,
		UserID:       participant.UserID,
		Name:         participant.Name,
		Email:        participant.Email,
		Phone:        participant.Phone,
		RegisteredAt: participant.RegisteredAt,
	})
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.InsertParticipant -> %w", err)
	}

	return r.participantDAOToDomain(created), nil
}

func (r *EventRepository) IsParticipant(ctx context.Context, eventID, userID uint) (bool, error) {
	_, err := r.dao.FindParticipant(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, dao.ErrParticipantNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("r.dao.FindParticipant -> %w", err)
	}

	return true, nil
}

func (r *EventRepository) SaveReview(ctx context.Context, review domain.Review) (domain.Review, error) {
	saved, err := r.dao.UpsertReview(ctx, dao.Review{
		EventID:   review.EventID,
		UserID:    review.UserID,
		UserName:  review.UserName,
		UserEmail: review.UserEmail,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.UpsertReview -> %w", err)
	}

	return r.reviewDAOToDomain(saved), nil
}

func (r *EventRepository) domainToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:                  e.ID,
		Title:               e.Title,
		OrganizerID:         e.OrganizerID,
		OrganizerName:       e.OrganizerName,
		OrganizerEmail:      e.OrganizerEmail,
		Date:                e.Date,
		StartTime:           e.StartTime,
		EndTime:             e.EndTime,
		StartsAt:            e.StartsAt,
		EndsAt:              e.EndsAt,
		Venue:               e.Venue,
		City:                e.City,
		Category:            e.Category,
		Description:         e.Description,
		ImagePath:           e.ImagePath,
		Tags:                strings.Join(e.Tags, ","),
		MaxParticipants:     e.MaxParticipants,
		CurrentParticipants: e.CurrentParticipants,
		Status:              e.Status,
		IsVerified:          e.IsVerified,
		VerifiedAt:          e.VerifiedAt,
		AverageRating:       e.AverageRating,
		TotalReviews:        e.TotalReviews,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	var tags []string
	if e.Tags != "" {
		tags = strings.Split(e.Tags, ",")
	}

	participants := make([]domain.Participant, 0, len(e.Participants))
	for _, p := range e.Participants {
		participants = append(participants, r.participantDAOToDomain(p))
	}

	reviews := make([]domain.Review, 0, len(e.Reviews))
	for _, rv := range e.Reviews {
		reviews = append(reviews, r.reviewDAOToDomain(rv))
	}

	return domain.Event{
		ID:                  e.ID,
		Title:               e.Title,
		OrganizerID:         e.OrganizerID,
		OrganizerName:       e.OrganizerName,
		OrganizerEmail:      e.OrganizerEmail,
		Date:                e.Date,
		StartTime:           e.StartTime,
		EndTime:             e.EndTime,
		StartsAt:            e.StartsAt,
		EndsAt:              e.EndsAt,
		Venue:               e.Venue,
		City:                e.City,
		Category:            e.Category,
		Description:         e.Description,
		ImagePath:           e.ImagePath,
		Tags:                tags,
		MaxParticipants:     e.MaxParticipants,
		CurrentParticipants: e.CurrentParticipants,
		Status:              e.Status,
		IsVerified:          e.IsVerified,
		VerifiedAt:          e.VerifiedAt,
		AverageRating:       e.AverageRating,
		TotalReviews:        e.TotalReviews,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
		Participants:        participants,
		Reviews:             reviews,
	}
}

func (r *EventRepository) participantDAOToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:           p.ID,
		EventID:      p.EventID,
		UserID:       p.UserID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		RegisteredAt: p.RegisteredAt,
	}
}

func (r *EventRepository) reviewDAOToDomain(rv dao.Review) domain.Review {
	return domain.Review{
		ID:        rv.ID,
		EventID:   rv.EventID,
		UserID:    rv.UserID,
		UserName:  rv.UserName,
		UserEmail: rv.UserEmail,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}
