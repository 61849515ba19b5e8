package models

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventsCollection   = "events"
	BookingsCollection = "bookings"
)

// ===== Events =====
type EventRepository interface {
	GetAll(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (Event, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Event, error)
	GetBySlug(ctx context.Context, slug string) (Event, error)
	// FindSimilar returns other events sharing at least one tag with e.
	FindSimilar(ctx context.Context, e Event) ([]Event, error)
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	// DeleteBySlug removes the event and returns it. Bookings are left in place.
	DeleteBySlug(ctx context.Context, slug string) (Event, error)
}

// ===== Bookings =====
type BookingRepository interface {
	// Find lists matching bookings, newest first.
	Find(ctx context.Context, f BookingFilter) ([]Booking, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (Booking, error)
	Exists(ctx context.Context, eventID primitive.ObjectID, email string) (bool, error)
	Create(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id primitive.ObjectID) (Booking, error)
}

// SimilarEventsBySlug never fails: an unknown slug or a store error yields an
// empty list.
func SimilarEventsBySlug(ctx context.Context, repo EventRepository, slug string) []Event {
	e, err := repo.GetBySlug(ctx, slug)
	if err != nil {
		log.Debugf("similar events for %q: %v", slug, err)
		return []Event{}
	}
	similar, err := repo.FindSimilar(ctx, e)
	if err != nil {
		log.Warnf("similar events for %q: %v", slug, err)
		return []Event{}
	}
	if similar == nil {
		return []Event{}
	}
	return similar
}
