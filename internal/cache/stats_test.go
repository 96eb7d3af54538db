package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/eventhub/internal/domain"
)

func TestStatsCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("dashboard:::").RedisNil()

	cache := NewStatsCache(client)
	_, ok := cache.Get(context.Background(), "dashboard:::")

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCache_GetHit(t *testing.T) {
	stats := domain.DashboardStats{TotalUsers: 3, TotalEvents: 2}
	raw, err := json.Marshal(stats)
	require.NoError(t, err)

	client, mock := redismock.NewClientMock()
	mock.ExpectGet("dashboard:week::").SetVal(string(raw))

	cache := NewStatsCache(client)
	got, ok := cache.Get(context.Background(), "dashboard:week::")

	require.True(t, ok)
	assert.Equal(t, 3, got.TotalUsers)
	assert.Equal(t, 2, got.TotalEvents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCache_GetCorruptEntry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("dashboard:::").SetVal("{not json")

	cache := NewStatsCache(client)
	_, ok := cache.Get(context.Background(), "dashboard:::")

	assert.False(t, ok)
}

func TestStatsCache_SetWritesWithTTL(t *testing.T) {
	stats := domain.DashboardStats{TotalUsers: 5}
	raw, err := json.Marshal(stats)
	require.NoError(t, err)

	client, mock := redismock.NewClientMock()
	mock.ExpectSet("dashboard:::", raw, DashboardTTL).SetVal("OK")

	cache := NewStatsCache(client)
	cache.Set(context.Background(), "dashboard:::", stats)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCache_SetFailureIsSwallowed(t *testing.T) {
	stats := domain.DashboardStats{TotalUsers: 5}
	raw, err := json.Marshal(stats)
	require.NoError(t, err)

	client, mock := redismock.NewClientMock()
	mock.ExpectSet("dashboard:::", raw, DashboardTTL).SetErr(assert.AnError)

	cache := NewStatsCache(client)

	// Must not panic or surface the error.
	cache.Set(context.Background(), "dashboard:::", stats)
}
