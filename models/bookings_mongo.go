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

type mongoBookingRepo struct {
	h       *db.Handle
	timeout time.Duration
}

func NewMongoBookingRepository(h *db.Handle, timeout time.Duration) BookingRepository {
	return &mongoBookingRepo{h: h, timeout: timeout}
}

func (r *mongoBookingRepo) col(ctx context.Context) (*mongo.Collection, error) {
	return r.h.Collection(ctx, BookingsCollection)
}

func (r *mongoBookingRepo) Find(ctx context.Context, f BookingFilter) ([]Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.M{}
	if !f.EventID.IsZero() {
		filter["eventId"] = f.EventID
	}
	if f.Email != "" {
		filter["email"] = NormalizeEmail(f.Email)
	}

	cur, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer cur.Close(ctx)

	out := []Booking{}
	for cur.Next(ctx) {
		var b Booking
		if err := cur.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		out = append(out, b)
	}
	return out, cur.Err()
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	col, err := r.col(ctx)
	if err != nil {
		return Booking{}, err
	}
	var b Booking
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Booking{}, ErrBookingNotFound
		}
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *mongoBookingRepo) Exists(ctx context.Context, eventID primitive.ObjectID, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	col, err := r.col(ctx)
	if err != nil {
		return false, err
	}
	n, err := col.CountDocuments(ctx,
		bson.M{"eventId": eventID, "email": NormalizeEmail(email)},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count bookings: %w", err)
	}
	return n > 0, nil
}

func (r *mongoBookingRepo) Create(ctx context.Context, b *Booking) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoBookingRepo) Delete(ctx context.Context, id primitive.ObjectID) (Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	col, err := r.col(ctx)
	if err != nil {
		return Booking{}, err
	}
	var b Booking
	if err := col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Booking{}, ErrBookingNotFound
		}
		return Booking{}, fmt.Errorf("delete booking: %w", err)
	}
	return b, nil
}
