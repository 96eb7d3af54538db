package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "pending stays pending",
			event: Event{Status: EventStatusPending, StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour)},
			want:  EventStatusPending,
		},
		{
			name:  "rejected stays rejected",
			event: Event{Status: EventStatusRejected, StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour)},
			want:  EventStatusRejected,
		},
		{
			name:  "before start is upcoming",
			event: Event{Status: EventStatusUpcoming, StartsAt: now.Add(time.Hour), EndsAt: now.Add(2 * time.Hour)},
			want:  EventStatusUpcoming,
		},
		{
			name:  "between start and end is ongoing",
			event: Event{Status: EventStatusUpcoming, StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour)},
			want:  EventStatusOngoing,
		},
		{
			name:  "after end is completed",
			event: Event{Status: EventStatusUpcoming, StartsAt: now.Add(-2 * time.Hour), EndsAt: now.Add(-time.Hour)},
			want:  EventStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.EffectiveStatus(now))
		})
	}
}

func TestHasEnded(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	ended := Event{EndsAt: now.Add(-time.Minute)}
	assert.True(t, ended.HasEnded(now))

	running := Event{EndsAt: now.Add(time.Minute)}
	assert.False(t, running.HasEnded(now))
}

func TestIsValidCategory(t *testing.T) {
	for _, category := range EventCategories {
		assert.True(t, IsValidCategory(category))
	}

	assert.False(t, IsValidCategory("quidditch"))
	assert.False(t, IsValidCategory(""))
	assert.False(t, IsValidCategory("Technology"))
}
