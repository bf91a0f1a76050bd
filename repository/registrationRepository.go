package repository

import (
	"context"
	"time"

	"github.com/joeyave/campus-hub/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const registrationsCollection = "eventregistrations"

type RegistrationRepository struct {
	collection collection
}

func NewRegistrationRepository(mongoClient *mongo.Client, dbName string) *RegistrationRepository {
	return &RegistrationRepository{
		collection: collection{client: mongoClient, dbName: dbName, name: registrationsCollection},
	}
}

func registrationMatch(filter entity.RegistrationFilter) bson.M {
	m := bson.M{}
	if filter.EventID != "" {
		m["eventId"] = filter.EventID
	}
	if filter.Status != "" {
		m["status"] = filter.Status
	}
	return m
}

// registrationsPipeline joins the minimal event fields onto each registration.
func registrationsPipeline(filter entity.RegistrationFilter) bson.A {
	pipeline := bson.A{
		bson.M{
			"$match": registrationMatch(filter),
		},
		bson.M{
			"$lookup": bson.M{
				"from": eventsCollection,
				"let":  bson.M{"eventId": "$eventId"},
				"pipeline": bson.A{
					bson.M{
						"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$eventId"}}},
					},
					bson.M{
						"$project": bson.M{
							"title": 1,
							"date":  1,
							"time":  1,
							"venue": 1,
						},
					},
				},
				"as": "event",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$event",
				"preserveNullAndEmptyArrays": true,
			},
		},
	}

	if filter.NewestFirst {
		pipeline = append(pipeline, bson.M{
			"$sort": bson.M{
				"registrationDate": -1,
			},
		})
	}

	return pipeline
}

func (r *RegistrationRepository) FindRegistrations(ctx context.Context, filter entity.RegistrationFilter) ([]*entity.Registration, error) {
	coll, err := r.collection.get()
	if err != nil {
		return nil, err
	}

	var cur *mongo.Cursor
	if filter.WithEvent {
		cur, err = coll.Aggregate(ctx, registrationsPipeline(filter))
	} else {
		opts := options.Find()
		if filter.NewestFirst {
			opts.SetSort(bson.D{{Key: "registrationDate", Value: -1}})
		}
		cur, err = coll.Find(ctx, registrationMatch(filter), opts)
	}
	if err != nil {
		return nil, wrapMongoError(err)
	}

	registrations := []*entity.Registration{}
	err = cur.All(ctx, &registrations)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	return registrations, nil
}

func (r *RegistrationRepository) FindRegistrationByID(ctx context.Context, ID string) (*entity.Registration, error) {
	return r.findOne(ctx, bson.M{"_id": ID})
}

func (r *RegistrationRepository) FindRegistration(ctx context.Context, eventID, email string) (*entity.Registration, error) {
	return r.findOne(ctx, bson.M{"eventId": eventID, "registrantEmail": email})
}

func (r *RegistrationRepository) findOne(ctx context.Context, m bson.M) (*entity.Registration, error) {
	coll, err := r.collection.get()
	if err != nil {
		return nil, err
	}

	var registration *entity.Registration
	err = coll.FindOne(ctx, m).Decode(&registration)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	return registration, nil
}

func (r *RegistrationRepository) CountRegistrations(ctx context.Context, eventID string) (int64, error) {
	coll, err := r.collection.get()
	if err != nil {
		return 0, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, wrapMongoError(err)
	}

	return count, nil
}

func (r *RegistrationRepository) CreateRegistration(ctx context.Context, registration entity.Registration) (*entity.Registration, error) {
	coll, err := r.collection.get()
	if err != nil {
		return nil, err
	}

	registration.ID = bson.NewObjectID().Hex()
	registration.RegistrationDate = time.Now().UTC()
	registration.Status = entity.StatusPending
	registration.Event = nil

	_, err = coll.InsertOne(ctx, registration)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	return &registration, nil
}

func (r *RegistrationRepository) UpdateRegistrationStatus(ctx context.Context, ID string, status entity.RegistrationStatus) (*entity.Registration, error) {
	coll, err := r.collection.get()
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{"status": status},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var registration *entity.Registration
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": ID}, update, opts).Decode(&registration)
	if err != nil {
		return nil, wrapMongoError(err)
	}

	return registration, nil
}

func (r *RegistrationRepository) DeleteRegistrationsByEventID(ctx context.Context, eventID string) (int64, error) {
	coll, err := r.collection.get()
	if err != nil {
		return 0, err
	}

	res, err := coll.DeleteMany(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, wrapMongoError(err)
	}

	return res.DeletedCount, nil
}
