package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventFull           = errors.New("event is full")
	ErrAlreadyRegistered   = errors.New("user already registered")
	ErrParticipantNotFound = errors.New("participant not found")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title          string `gorm:"not null"`
	OrganizerID    uint   `gorm:"not null;index"`
	OrganizerName  string `gorm:"not null"`
	OrganizerEmail string `gorm:"not null"`

	Date      string    `gorm:"not null"` // YYYY-MM-DD
	StartTime string    `gorm:"not null"` // HH:MM
	EndTime   string    `gorm:"not null"` // HH:MM
	StartsAt  time.Time `gorm:"not null;index"`
	EndsAt    time.Time `gorm:"not null"`

	Venue       string `gorm:"not null"`
	City        string `gorm:"not null;index"`
	Category    string `gorm:"not null;index"`
	Description string `gorm:"not null"`
	ImagePath   string
	Tags        string // comma-joined

	MaxParticipants     int `gorm:"not null"`
	CurrentParticipants int `gorm:"not null;default:0"`

	Status     string `gorm:"not null;index"`
	IsVerified bool   `gorm:"not null;default:false"`
	VerifiedAt *time.Time

	AverageRating float64 `gorm:"not null;default:0"`
	TotalReviews  int     `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Participants []Participant `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Reviews      []Review      `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// Participant rows are keyed per (event, user) instead of living in an
// array on the event, so concurrent registrations cannot overwrite each
// other.
type Participant struct {
	ID      uint `gorm:"primaryKey"`
	EventID uint `gorm:"not null;uniqueIndex:idx_participants_event_user"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_participants_event_user"`

	Name  string `gorm:"not null"`
	Email string `gorm:"not null"`
	Phone string

	RegisteredAt time.Time `gorm:"not null"`
}

type Review struct {
	ID      uint `gorm:"primaryKey"`
	EventID uint `gorm:"not null;uniqueIndex:idx_reviews_event_user"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_reviews_event_user"`

	UserName  string `gorm:"not null"`
	UserEmail string `gorm:"not null"`
	Rating    int    `gorm:"not null"`
	Comment   string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// EventQuery narrows FindAll. Zero values mean "no filter".
type EventQuery struct {
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

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Preload("Participants").
		Preload("Reviews").
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context, query EventQuery) ([]Event, error) {
	tx := d.db.WithContext(ctx).Model(&Event{})

	if query.OrganizerID != 0 {
		tx = tx.Where("organizer_id = ?", query.OrganizerID)
	}
	if query.Category != "" {
		tx = tx.Where("category = ?", query.Category)
	}
	if query.City != "" {
		tx = tx.Where("LOWER(city) = LOWER(?)", query.City)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		tx = tx.Where("title ILIKE ? OR organizer_name ILIKE ? OR category ILIKE ?", pattern, pattern, pattern)
	}
	if query.VerifiedOnly {
		tx = tx.Where("is_verified = ?", true)
	}
	if !query.StartsAfter.IsZero() {
		tx = tx.Where("starts_at >= ?", query.StartsAfter)
	}
	if !query.StartsBefore.IsZero() {
		tx = tx.Where("starts_at < ?", query.StartsBefore)
	}
	if !query.EndsBefore.IsZero() {
		tx = tx.Where("ends_at < ?", query.EndsBefore)
	}

	if query.OrderByStart {
		tx = tx.Order("starts_at ASC")
	} else {
		tx = tx.Order("created_at DESC")
	}

	var events []Event
	if result := tx.Find(&events); result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindPendingVerification(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("is_verified = ? AND status = ?", false, "pending").
		Order("created_at DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{ID: event.ID}).Updates(map[string]interface{}{
		"title":            event.Title,
		"date":             event.Date,
		"start_time":       event.StartTime,
		"end_time":         event.EndTime,
		"starts_at":        event.StartsAt,
		"ends_at":          event.EndsAt,
		"venue":            event.Venue,
		"city":             event.City,
		"category":         event.Category,
		"description":      event.Description,
		"tags":             event.Tags,
		"max_participants": event.MaxParticipants,
	})
	if result.Error != nil {
		return Event{}, result.Error
	}

	return d.FindByID(ctx, event.ID)
}

func (d *EventDAO) UpdateImagePath(ctx context.Context, id uint, path string) error {
	result := d.db.WithContext(ctx).Model(&Event{ID: id}).Update("image_path", path)

	return result.Error
}

// SetVerification records an admin decision on the event.
func (d *EventDAO) SetVerification(ctx context.Context, id uint, verified bool, status string, verifiedAt time.Time) (Event, error) {
	if _, err := d.FindByID(ctx, id); err != nil {
		return Event{}, err
	}

	result := d.db.WithContext(ctx).Model(&Event{ID: id}).Updates(map[string]interface{}{
		"is_verified": verified,
		"status":      status,
		"verified_at": verifiedAt,
	})
	if result.Error != nil {
		return Event{}, result.Error
	}

	return d.FindByID(ctx, id)
}

func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Select(clause.Associations).Delete(&Event{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// InsertParticipant checks capacity and appends the participant in one
// transaction, holding a row lock on the event so two concurrent
// registrations cannot both pass the capacity check.
func (d *EventDAO) InsertParticipant(ctx context.Context, participant Participant) (Participant, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, participant.EventID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return result.Error
		}

		if event.CurrentParticipants >= event.MaxParticipants {
			return ErrEventFull
		}

		var count int64
		if err := tx.Model(&Participant{}).
			Where("event_id = ? AND user_id = ?", participant.EventID, participant.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyRegistered
		}

		if err := tx.Create(&participant).Error; err != nil {
			return err
		}

		return tx.Model(&event).
			Update("current_participants", gorm.Expr("current_participants + 1")).Error
	})
	if err != nil {
		return Participant{}, err
	}

	return participant, nil
}

func (d *EventDAO) FindParticipant(ctx context.Context, eventID, userID uint) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).
		First(&participant, "event_id = ? AND user_id = ?", eventID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

// UpsertReview inserts or replaces the caller's review and recomputes the
// event's average rating and review count inside the same transaction.
func (d *EventDAO) UpsertReview(ctx context.Context, review Review) (Review, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Review
		result := tx.First(&existing, "event_id = ? AND user_id = ?", review.EventID, review.UserID)
		switch {
		case result.Error == nil:
			review.ID = existing.ID
			review.CreatedAt = existing.CreatedAt
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		default:
			return result.Error
		}

		type ratingAgg struct {
			Avg   float64
			Count int
		}
		var agg ratingAgg
		if err := tx.Model(&Review{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("event_id = ?", review.EventID).
			Scan(&agg).Error; err != nil {
			return err
		}

		return tx.Model(&Event{ID: review.EventID}).Updates(map[string]interface{}{
			"average_rating": agg.Avg,
			"total_reviews":  agg.Count,
		}).Error
	})
	if err != nil {
		return Review{}, err
	}

	return review, nil
}
