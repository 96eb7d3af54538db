package domain

import "time"

const (
	EventStatusPending   = "pending"
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusRejected  = "rejected"
)

// EventCategories is the fixed set of category tags an event can carry.
var EventCategories = []string{"academic", "cultural", "sports", "technology", "workshop", "social"}

type Event struct {
	ID                  uint       `json:"id"`
	Title               string     `json:"title"`
	OrganizerID         uint       `json:"organizer_id"`
	OrganizerName       string     `json:"organizer_name"`
	OrganizerEmail      string     `json:"organizer_email"`
	Date                string     `json:"date"`       // YYYY-MM-DD
	StartTime           string     `json:"start_time"` // HH:MM
	EndTime             string     `json:"end_time"`   // HH:MM
	StartsAt            time.Time  `json:"starts_at"`
	EndsAt              time.Time  `json:"ends_at"`
	Venue               string     `json:"venue"`
	City                string     `json:"city"`
	Category            string     `json:"category"`
	Description         string     `json:"description"`
	ImagePath           string     `json:"image_path,omitempty"`
	Tags                []string   `json:"tags,omitempty"`
	MaxParticipants     int        `json:"max_participants"`
	CurrentParticipants int        `json:"current_participants"`
	Status              string     `json:"status"`
	IsVerified          bool       `json:"is_verified"`
	AverageRating       float64    `json:"average_rating"`
	TotalReviews        int        `json:"total_reviews"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Participants []Participant `json:"participants,omitempty"`
	Reviews      []Review      `json:"reviews,omitempty"`
}

// EffectiveStatus derives the time-driven phase of a verified event.
// The stored status only tracks the admin-controlled transitions
// (pending/upcoming/rejected); ongoing and completed are a function of
// the clock, so they are computed on read instead of written by a
// scheduler.
func (e Event) EffectiveStatus(now time.Time) string {
	if e.Status == EventStatusPending || e.Status == EventStatusRejected {
		return e.Status
	}

	switch {
	case now.Before(e.StartsAt):
		return EventStatusUpcoming
	case now.Before(e.EndsAt):
		return EventStatusOngoing
	default:
		return EventStatusCompleted
	}
}

// HasEnded reports whether reviews are open for the event.
func (e Event) HasEnded(now time.Time) bool {
	return now.After(e.EndsAt)
}

func IsValidCategory(category string) bool {
	for _, c := range EventCategories {
		if c == category {
			return true
		}
	}

	return false
}

type Participant struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registered_at"`
}

type Review struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
