package models

import (
	"context"
	"time"
)

// EventService is the write path for events: every insert and update goes
// through NormalizeEvent first.
type EventService struct {
	events EventRepository
	now    func() time.Time
}

func NewEventService(events EventRepository) *EventService {
	return &EventService{events: events, now: time.Now}
}

func (s *EventService) Create(ctx context.Context, p EventPatch) (Event, error) {
	candidate, changed := p.Apply(Event{})
	e, err := NormalizeEvent(candidate, changed)
	if err != nil {
		return Event{}, err
	}
	now := s.now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	if err := s.events.Create(ctx, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Update applies p to the event stored under slug. Only the fields p changes
// have their slug/date/time normalization re-run.
func (s *EventService) Update(ctx context.Context, slug string, p EventPatch) (Event, error) {
	current, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return Event{}, err
	}
	candidate, changed := p.Apply(current)
	e, err := NormalizeEvent(candidate, changed)
	if err != nil {
		return Event{}, err
	}
	e.ID = current.ID
	e.CreatedAt = current.CreatedAt
	e.UpdatedAt = s.now().UTC()
	if err := s.events.Update(ctx, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}
