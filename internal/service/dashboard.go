package service

import (
	"sort"
	"strings"
	"time"

	"github.com/campushub/eventhub/internal/domain"
)

const (
	topRatedLimit    = 4
	growthWindowDays = 7
)

// AggregateDashboard derives display statistics from an in-memory
// snapshot. Pure: same snapshot, filter and clock always produce the
// same stats.
func AggregateDashboard(users []domain.User, events []domain.Event, filter domain.DashboardFilter, now time.Time) domain.DashboardStats {
	filtered := filterEvents(events, filter, now)

	activeOrganizers := 0
	for _, u := range users {
		if u.Role == domain.RoleOrganizer && u.IsActive {
			activeOrganizers++
		}
	}

	return domain.DashboardStats{
		TotalUsers:        len(users),
		TotalEvents:       len(filtered),
		ActiveOrganizers:  activeOrganizers,
		StatusPercentages: statusPercentages(filtered, now),
		TopRatedEvents:    topRatedEvents(filtered),
		UserGrowthSeries:  userGrowthSeries(users, now),
	}
}

func filterEvents(events []domain.Event, filter domain.DashboardFilter, now time.Time) []domain.Event {
	filtered := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.City != "" && !strings.EqualFold(e.City, filter.City) {
			continue
		}
		if !matchesTimeframe(e, filter.Timeframe, now) {
			continue
		}

		filtered = append(filtered, e)
	}

	return filtered
}

func matchesTimeframe(e domain.Event, timeframe string, now time.Time) bool {
	switch timeframe {
	case "upcoming":
		return e.StartsAt.After(now)
	case "past":
		return e.EndsAt.Before(now)
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return !e.StartsAt.Before(start) && e.StartsAt.Before(start.AddDate(0, 0, 1))
	case "week":
		return !e.StartsAt.Before(now) && e.StartsAt.Before(now.AddDate(0, 0, 7))
	case "month":
		return !e.StartsAt.Before(now) && e.StartsAt.Before(now.AddDate(0, 1, 0))
	default:
		return true
	}
}

// statusPercentages reports each status's share of the snapshot. The
// denominator defaults to 1 so an empty snapshot yields zeros instead
// of NaN.
func statusPercentages(events []domain.Event, now time.Time) map[string]float64 {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.EffectiveStatus(now)]++
	}

	total := len(events)
	if total == 0 {
		total = 1
	}

	percentages := make(map[string]float64, len(counts))
	for status, count := range counts {
		percentages[status] = float64(count) / float64(total) * 100
	}

	return percentages
}

func topRatedEvents(events []domain.Event) []domain.Event {
	rated := make([]domain.Event, len(events))
	copy(rated, events)

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].AverageRating > rated[j].AverageRating
	})

	if len(rated) > topRatedLimit {
		rated = rated[:topRatedLimit]
	}

	return rated
}

// userGrowthSeries counts signups per day over the trailing window,
// oldest day first. Days with no signups still appear with a zero.
func userGrowthSeries(users []domain.User, now time.Time) []domain.DailyCount {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	series := make([]domain.DailyCount, 0, growthWindowDays)
	for i := growthWindowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)

		count := 0
		for _, u := range users {
			if !u.CreatedAt.Before(day) && u.CreatedAt.Before(next) {
				count++
			}
		}

		series = append(series, domain.DailyCount{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
	}

	return series
}
