package dao

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

// TestMain spins up a disposable postgres container. Run with -short to
// skip the suite entirely.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct docker pool: %s", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("could not connect to docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=eventhub",
			"POSTGRES_PASSWORD=eventhub",
			"POSTGRES_DB=eventhub_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=eventhub password=eventhub dbname=eventhub_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 2 * time.Minute
	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %s", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %s", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge postgres container: %s", err)
	}

	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.Exec("TRUNCATE users, events, participants, reviews RESTART IDENTITY CASCADE").Error)
}

func testEvent(organizerID uint) Event {
	return Event{
		Title:           "Spring Hackathon",
		OrganizerID:     organizerID,
		OrganizerName:   "Marie Dubois",
		OrganizerEmail:  "marie@campus.io",
		Date:            "2026-04-10",
		StartTime:       "09:00",
		EndTime:         "18:00",
		StartsAt:        time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:          time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC),
		Venue:           "Main Hall",
		City:            "Lyon",
		Category:        "technology",
		Description:     "A full day of building and shipping.",
		MaxParticipants: 2,
		Status:          "pending",
	}
}

func TestUserDAO_InsertAndDuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dao integration test")
	}
	resetTables(t)

	d := NewUserDAO(testDB)
	ctx := context.Background()

	created, err := d.Insert(ctx, User{
		Email:     "tom@campus.io",
		Password:  "hashed",
		FirstName: "Tom",
		Role:      "student",
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = d.Insert(ctx, User{
		Email:     "tom@campus.io",
		Password:  "hashed",
		FirstName: "Other",
		Role:      "student",
	})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestUserDAO_SetActive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dao integration test")
	}
	resetTables(t)

	d := NewUserDAO(testDB)
	ctx := context.Background()

	created, err := d.Insert(ctx, User{
		Email:     "marie@campus.io",
		Password:  "hashed",
		FirstName: "Marie",
		Role:      "organizer",
	})
	require.NoError(t, err)
	require.False(t, created.IsActive)

	verifiedAt := time.Now().UTC().Truncate(time.Second)
	_, err = d.SetActive(ctx, created.ID, true, verifiedAt)
	require.NoError(t, err)

	found, err := d.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found.IsActive)
	require.NotNil(t, found.VerifiedAt)

	pending, err := d.FindPendingOrganizers(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEventDAO_InsertParticipant_CapacityAndDuplicates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dao integration test")
	}
	resetTables(t)

	d := NewEventDAO(testDB)
	ctx := context.Background()

	event, err := d.Insert(ctx, testEvent(1))
	require.NoError(t, err)

	participant := func(userID uint) Participant {
		return Participant{
			EventID:      event.ID,
			UserID:       userID,
			Name:         "Student",
			Email:        fmt.Sprintf("s%d@campus.io", userID),
			RegisteredAt: time.Now().UTC(),
		}
	}

	_, err = d.InsertParticipant(ctx, participant(10))
	require.NoError(t, err)

	// Same user again hits the duplicate check, not the capacity check.
	_, err = d.InsertParticipant(ctx, participant(10))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = d.InsertParticipant(ctx, participant(11))
	require.NoError(t, err)

	_, err = d.InsertParticipant(ctx, participant(12))
	assert.ErrorIs(t, err, ErrEventFull)

	found, err := d.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.CurrentParticipants)
	assert.Len(t, found.Participants, 2)
}

func TestEventDAO_UpsertReview_RecomputesAggregate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dao integration test")
	}
	resetTables(t)

	d := NewEventDAO(testDB)
	ctx := context.Background()

	event, err := d.Insert(ctx, testEvent(1))
	require.NoError(t, err)

	review := func(userID uint, rating int) Review {
		now := time.Now().UTC()
		return Review{
			EventID:   event.ID,
			UserID:    userID,
			UserName:  "Student",
			UserEmail: fmt.Sprintf("s%d@campus.io", userID),
			Rating:    rating,
			Comment:   "Great talks, solid venue.",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	_, err = d.UpsertReview(ctx, review(10, 5))
	require.NoError(t, err)
	_, err = d.UpsertReview(ctx, review(11, 3))
	require.NoError(t, err)
	_, err = d.UpsertReview(ctx, review(12, 4))
	require.NoError(t, err)

	found, err := d.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.TotalReviews)
	assert.InDelta(t, 4.0, found.AverageRating, 0.001)

	// Resubmitting replaces the earlier review instead of adding a row.
	_, err = d.UpsertReview(ctx, review(11, 5))
	require.NoError(t, err)

	found, err = d.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.TotalReviews)
	assert.InDelta(t, 14.0/3.0, found.AverageRating, 0.001)
}

func TestEventDAO_FindAll_Filters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dao integration test")
	}
	resetTables(t)

	d := NewEventDAO(testDB)
	ctx := context.Background()

	verified := testEvent(1)
	verified.IsVerified = true
	verified.Status = "upcoming"
	_, err := d.Insert(ctx, verified)
	require.NoError(t, err)

	other := testEvent(2)
	other.Title = "Jazz Evening"
	other.City = "Paris"
	other.Category = "cultural"
	_, err = d.Insert(ctx, other)
	require.NoError(t, err)

	events, err := d.FindAll(ctx, EventQuery{VerifiedOnly: true})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = d.FindAll(ctx, EventQuery{City: "LYON"})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = d.FindAll(ctx, EventQuery{Search: "jazz"})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = d.FindAll(ctx, EventQuery{OrganizerID: 2})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// EndsBefore bounds on the end time, so neither event is past while
	// one is still running.
	during := verified.StartsAt.Add(time.Hour)
	events, err = d.FindAll(ctx, EventQuery{EndsBefore: during})
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = d.FindAll(ctx, EventQuery{EndsBefore: verified.EndsAt.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventDAO_FindPendingVerification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dao integration test")
	}
	resetTables(t)

	d := NewEventDAO(testDB)
	ctx := context.Background()

	pending := testEvent(1)
	_, err := d.Insert(ctx, pending)
	require.NoError(t, err)

	approved := testEvent(1)
	approved.Title = "Approved Meetup"
	approved.IsVerified = true
	approved.Status = "upcoming"
	_, err = d.Insert(ctx, approved)
	require.NoError(t, err)

	rejected := testEvent(2)
	rejected.Title = "Rejected Meetup"
	rejected.Status = "rejected"
	_, err = d.Insert(ctx, rejected)
	require.NoError(t, err)

	events, err := d.FindPendingVerification(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Spring Hackathon", events[0].Title)
}

func TestEventDAO_Delete_CascadesAssociations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dao integration test")
	}
	resetTables(t)

	d := NewEventDAO(testDB)
	ctx := context.Background()

	event, err := d.Insert(ctx, testEvent(1))
	require.NoError(t, err)

	_, err = d.InsertParticipant(ctx, Participant{
		EventID:      event.ID,
		UserID:       10,
		Name:         "Student",
		Email:        "s10@campus.io",
		RegisteredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, event.ID))

	_, err = d.FindByID(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = d.FindParticipant(ctx, event.ID, 10)
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	assert.ErrorIs(t, d.Delete(ctx, event.ID), ErrEventNotFound)
}
