package repository

import (
	"context"
	"time"

	"github.com/joeyave/campus-hub/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const eventsCollection = "events"

type EventRepository struct {
	collection collection
}

func NewEventRepository(mongoClient *mongo.Client, dbName string) *EventRepository {
	return &EventRepository{
		collection: collection{client: mongoClient, dbName: dbName, name: eventsCollection},
	}
}

func (r *EventRepository) FindEvents(ctx context.Context, filter entity.EventFilter) ([]*entity.Event, error) {
	coll, err := r.collection.get()
	if err != nil {
		return nil, err
	}

	m := bson.M{}
	if filter.ActiveOnly {
		m["isActive"] = true
	}

	opts := options.Find()
	if filter.NewestFirst {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}

	cur, err := coll.Find(ctx, m, opts)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	events := []*entity.Event{}
	err = cur.All(ctx, &events)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	return events, nil
}

func (r *EventRepository) FindEventByID(ctx context.Context, ID string) (*entity.Event, error) {
	coll, err := r.collection.get()
	if err != nil {
		return nil, err
	}

	var event *entity.Event
	err = coll.FindOne(ctx, bson.M{"_id": ID}).Decode(&event)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	return event, nil
}

func (r *EventRepository) CreateEvent(ctx context.Context, event entity.Event) (*entity.Event, error) {
	coll, err := r.collection.get()
	if err != nil {
		return nil, err
	}

	event.ID = bson.NewObjectID().Hex()
	event.CreatedAt = time.Now().UTC()

	_, err = coll.InsertOne(ctx, event)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	return &event, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, ID string, patch entity.EventPatch) (*entity.Event, error) {
	if patch.IsEmpty() {
		return r.FindEventByID(ctx, ID)
	}

	coll, err := r.collection.get()
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": patch,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event *entity.Event
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": ID}, update, opts).Decode(&event)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	return event, nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, ID string) (bool, error) {
	coll, err := r.collection.get()
	if err != nil {
		return false, err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": ID})
	if err != nil {
		return false, wrapMongoError(err)
	}

	return res.DeletedCount > 0, nil
}
