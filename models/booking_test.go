package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devevent/mocks"
	"devevent/models"
)

func storedEvent(title, slug string, tags ...string) models.Event {
	return models.Event{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Slug:      slug,
		Date:      "2025-06-01",
		Time:      "09:00",
		Venue:     "Hall A",
		Location:  "Berlin",
		Mode:      models.ModeOffline,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
}

func TestBookingServiceCreate(t *testing.T) {
	ctx := context.Background()
	ev := storedEvent("Go Day", "go-day", "go")
	events := mocks.NewEventRepo(ev)
	bookings := mocks.NewBookingRepo()
	svc := models.NewBookingService(events, bookings)

	b, err := svc.Create(ctx, ev.ID, "  Dev@Example.COM ")
	require.NoError(t, err)
	assert.False(t, b.ID.IsZero())
	assert.Equal(t, "dev@example.com", b.Email)
	assert.Equal(t, "go-day", b.Slug)
	assert.Equal(t, ev.ID, b.EventID)
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, b.CreatedAt.Location())
	assert.Equal(t, 1, bookings.Count(ev.ID, "dev@example.com"))
}

func TestBookingServiceCreateMissingEvent(t *testing.T) {
	ctx := context.Background()
	bookings := mocks.NewBookingRepo()
	svc := models.NewBookingService(mocks.NewEventRepo(), bookings)

	id := primitive.NewObjectID()
	_, err := svc.Create(ctx, id, "dev@example.com")
	require.ErrorIs(t, err, models.ErrReferencedEventNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), id.Hex())
	assert.Empty(t, bookings.Items)
}

func TestBookingServiceCreateValidation(t *testing.T) {
	ctx := context.Background()
	ev := storedEvent("Go Day", "go-day", "go")
	bookings := mocks.NewBookingRepo()
	svc := models.NewBookingService(mocks.NewEventRepo(ev), bookings)

	_, err := svc.Create(ctx, ev.ID, "not-an-email")
	assert.ErrorIs(t, err, models.ErrInvalidEmail)

	_, err = svc.Create(ctx, ev.ID, "   ")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Create(ctx, primitive.NilObjectID, "dev@example.com")
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Empty(t, bookings.Items)
}

func TestNormalizeBooking(t *testing.T) {
	b, err := models.NormalizeBooking(models.Booking{
		EventID: primitive.NewObjectID(),
		Slug:    " Go-Day ",
		Email:   "A@B.io",
	})
	require.NoError(t, err)
	assert.Equal(t, "go-day", b.Slug)
	assert.Equal(t, "a@b.io", b.Email)

	_, err = models.NormalizeBooking(models.Booking{Email: "a@b"})
	require.ErrorIs(t, err, models.ErrValidation)
	assert.ErrorIs(t, err, models.ErrInvalidEmail)
	assert.Contains(t, err.Error(), "eventId is required")
	assert.Contains(t, err.Error(), "slug is required")
}

func TestParseEventID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := models.ParseEventID(" " + id.Hex() + " ")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = models.ParseEventID("abc")
	assert.ErrorIs(t, err, models.ErrInvalidEventID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestBookingServicePopulate(t *testing.T) {
	ctx := context.Background()
	ev := storedEvent("Go Day", "go-day", "go")
	gone := primitive.NewObjectID()
	svc := models.NewBookingService(mocks.NewEventRepo(ev), mocks.NewBookingRepo())

	views, err := svc.Populate(ctx, []models.Booking{
		{ID: primitive.NewObjectID(), EventID: ev.ID, Slug: "go-day", Email: "a@b.io"},
		{ID: primitive.NewObjectID(), EventID: gone, Slug: "old", Email: "a@b.io"},
		{ID: primitive.NewObjectID(), EventID: ev.ID, Slug: "go-day", Email: "c@d.io"},
	})
	require.NoError(t, err)
	require.Len(t, views, 3)
	require.NotNil(t, views[0].Event)
	assert.Equal(t, "Go Day", views[0].Event.Title)
	assert.Equal(t, "09:00", views[0].Event.Time)
	assert.Nil(t, views[1].Event)
	require.NotNil(t, views[2].Event)
	assert.Equal(t, ev.ID, views[2].Event.ID)

	views, err = svc.Populate(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}
