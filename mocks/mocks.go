package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devevent/models"
)

// ErrDuplicateSlug mimics the store's unique index rejection.
var ErrDuplicateSlug = errors.New("E11000 duplicate key error collection: events index: events_slug_unique")

type MockEventRepo struct {
	mu    sync.Mutex
	Items map[primitive.ObjectID]models.Event
}

func NewEventRepo(events ...models.Event) *MockEventRepo {
	m := &MockEventRepo{Items: map[primitive.ObjectID]models.Event{}}
	for _, e := range events {
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
		m.Items[e.ID] = e
	}
	return m
}

func (m *MockEventRepo) GetAll(ctx context.Context) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Event, 0, len(m.Items))
	for _, e := range m.Items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockEventRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Items[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	return e, nil
}

func (m *MockEventRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Event{}
	for _, id := range ids {
		if e, ok := m.Items[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEventRepo) GetBySlug(ctx context.Context, slug string) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Items {
		if e.Slug == slug {
			return e, nil
		}
	}
	return models.Event{}, models.ErrEventNotFound
}

func (m *MockEventRepo) FindSimilar(ctx context.Context, target models.Event) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := map[string]bool{}
	for _, t := range target.Tags {
		tags[t] = true
	}
	out := []models.Event{}
	for _, e := range m.Items {
		if e.ID == target.ID {
			continue
		}
		for _, t := range e.Tags {
			if tags[t] {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (m *MockEventRepo) Create(ctx context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.Items {
		if other.Slug == e.Slug {
			return ErrDuplicateSlug
		}
	}
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	m.Items[e.ID] = *e
	return nil
}

func (m *MockEventRepo) Update(ctx context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[e.ID]; !ok {
		return models.ErrEventNotFound
	}
	for id, other := range m.Items {
		if id != e.ID && other.Slug == e.Slug {
			return ErrDuplicateSlug
		}
	}
	m.Items[e.ID] = *e
	return nil
}

func (m *MockEventRepo) DeleteBySlug(ctx context.Context, slug string) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.Items {
		if e.Slug == slug {
			delete(m.Items, id)
			return e, nil
		}
	}
	return models.Event{}, models.ErrEventNotFound
}

type MockBookingRepo struct {
	mu    sync.Mutex
	Items map[primitive.ObjectID]models.Booking
}

func NewBookingRepo(bookings ...models.Booking) *MockBookingRepo {
	m := &MockBookingRepo{Items: map[primitive.ObjectID]models.Booking{}}
	for _, b := range bookings {
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
		m.Items[b.ID] = b
	}
	return m
}

func (m *MockBookingRepo) Find(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := models.NormalizeEmail(f.Email)
	out := []models.Booking{}
	for _, b := range m.Items {
		if !f.EventID.IsZero() && b.EventID != f.EventID {
			continue
		}
		if email != "" && b.Email != email {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Items[id]
	if !ok {
		return models.Booking{}, models.ErrBookingNotFound
	}
	return b, nil
}

func (m *MockBookingRepo) Exists(ctx context.Context, eventID primitive.ObjectID, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, b := range m.Items {
		if b.EventID == eventID && b.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	m.Items[b.ID] = *b
	return nil
}

func (m *MockBookingRepo) Delete(ctx context.Context, id primitive.ObjectID) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Items[id]
	if !ok {
		return models.Booking{}, models.ErrBookingNotFound
	}
	delete(m.Items, id)
	return b, nil
}

// Count reports how many bookings match the pair.
func (m *MockBookingRepo) Count(eventID primitive.ObjectID, email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Items {
		if b.EventID == eventID && b.Email == email {
			n++
		}
	}
	return n
}
