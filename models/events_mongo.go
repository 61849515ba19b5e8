package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devevent/db"
)

type mongoEventRepo struct {
	h       *db.Handle
	timeout time.Duration
}

func NewMongoEventRepository(h *db.Handle, timeout time.Duration) EventRepository {
	return &mongoEventRepo{h: h, timeout: timeout}
}

func (r *mongoEventRepo) col(ctx context.Context) (*mongo.Collection, error) {
	return r.h.Collection(ctx, EventsCollection)
}

func (r *mongoEventRepo) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]Event, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	out := []Event{}
	for cur.Next(ctx) {
		var e Event
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

func (r *mongoEventRepo) findOne(ctx context.Context, filter any) (Event, error) {
	col, err := r.col(ctx)
	if err != nil {
		return Event{}, err
	}
	var e Event
	if err := col.FindOne(ctx, filter).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, fmt.Errorf("find event: %w", err)
	}
	return e, nil
}

func (r *mongoEventRepo) GetAll(ctx context.Context) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id primitive.ObjectID) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoEventRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoEventRepo) GetBySlug(ctx context.Context, slug string) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoEventRepo) FindSimilar(ctx context.Context, e Event) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.find(ctx, bson.M{
		"_id":  bson.M{"$ne": e.ID},
		"tags": bson.M{"$in": e.Tags},
	})
}

func (r *mongoEventRepo) Create(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.InsertOne(ctx, e)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoEventRepo) Update(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *mongoEventRepo) DeleteBySlug(ctx context.Context, slug string) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	col, err := r.col(ctx)
	if err != nil {
		return Event{}, err
	}
	var e Event
	if err := col.FindOneAndDelete(ctx, bson.M{"slug": slug}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, fmt.Errorf("delete event: %w", err)
	}
	return e, nil
}

// EnsureIndexes creates the indexes both collections rely on. The unique slug
// index is what rejects a second event whose title yields the same slug.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	_, err := d.Collection(EventsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("events_slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("events_tags"),
		},
	})
	if err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}

	_, err = d.Collection(BookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetName("bookings_event"),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("bookings_slug"),
		},
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetName("bookings_event_email"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("bookings_created"),
		},
	})
	if err != nil {
		return fmt.Errorf("bookings indexes: %w", err)
	}
	return nil
}
