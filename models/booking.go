package models

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"eventId" json:"eventId"`
	Slug      string             `bson:"slug" json:"slug"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BookingView is a booking with its event summary attached. Event is nil when
// the referenced event no longer exists.
type BookingView struct {
	Booking
	Event *EventSummary `json:"event"`
}

// BookingFilter narrows a booking listing. Zero fields match everything.
type BookingFilter struct {
	EventID primitive.ObjectID
	Email   string
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeBooking validates b and brings it into its stored form.
func NormalizeBooking(b Booking) (Booking, error) {
	b.Email = NormalizeEmail(b.Email)
	b.Slug = strings.ToLower(strings.TrimSpace(b.Slug))

	var errs []error
	if b.EventID.IsZero() {
		errs = append(errs, fieldError("eventId", "is required"))
	}
	if b.Slug == "" {
		errs = append(errs, fieldError("slug", "is required"))
	}
	if err := checkEmail(b.Email); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return Booking{}, err
	}
	return b, nil
}

func checkEmail(email string) error {
	switch {
	case email == "":
		return fieldError("email", "is required")
	case !emailShape.MatchString(email):
		return ErrInvalidEmail
	}
	return nil
}

// ParseEventID reads a hex event identifier as sent by clients.
func ParseEventID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidEventID
	}
	return id, nil
}

func ParseBookingID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidBookingID
	}
	return id, nil
}

// EventFinder is the part of EventRepository bookings depend on.
type EventFinder interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (Event, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Event, error)
}

type BookingService struct {
	events   EventFinder
	bookings BookingRepository
	now      func() time.Time
}

func NewBookingService(events EventFinder, bookings BookingRepository) *BookingService {
	return &BookingService{events: events, bookings: bookings, now: time.Now}
}

// Create validates a new booking, checks that the referenced event exists and
// persists it. It does not check for an existing booking of the same pair.
func (s *BookingService) Create(ctx context.Context, eventID primitive.ObjectID, email string) (Booking, error) {
	if eventID.IsZero() {
		return Booking{}, fieldError("eventId", "is required")
	}
	email = NormalizeEmail(email)
	if err := checkEmail(email); err != nil {
		return Booking{}, err
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Booking{}, fmt.Errorf("%w: event with ID %s does not exist, cannot create booking", ErrReferencedEventNotFound, eventID.Hex())
		}
		return Booking{}, err
	}

	b, err := NormalizeBooking(Booking{EventID: ev.ID, Slug: ev.Slug, Email: email})
	if err != nil {
		return Booking{}, err
	}
	now := s.now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	if err := s.bookings.Create(ctx, &b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// Populate attaches event summaries to bookings in one lookup.
func (s *BookingService) Populate(ctx context.Context, bookings []Booking) ([]BookingView, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(bookings))
	ids := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.EventID]; !ok {
			seen[b.EventID] = struct{}{}
			ids = append(ids, b.EventID)
		}
	}

	byID := make(map[primitive.ObjectID]EventSummary, len(ids))
	if len(ids) > 0 {
		evs, err := s.events.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, e := range evs {
			byID[e.ID] = e.Summary()
		}
	}

	out := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		v := BookingView{Booking: b}
		if sum, ok := byID[b.EventID]; ok {
			v.Event = &sum
		}
		out = append(out, v)
	}
	return out, nil
}
