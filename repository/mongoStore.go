package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoStore is the durable Store: events and registrations in MongoDB.
type MongoStore struct {
	*EventRepository
	*RegistrationRepository

	state *ConnectionState
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore accepts a nil client, in which case the store is permanently offline.
func NewMongoStore(mongoClient *mongo.Client, dbName string, state *ConnectionState) *MongoStore {
	return &MongoStore{
		EventRepository:        NewEventRepository(mongoClient, dbName),
		RegistrationRepository: NewRegistrationRepository(mongoClient, dbName),
		state:                  state,
	}
}

func (s *MongoStore) Connected(context.Context) bool {
	return s.EventRepository.collection.client != nil && s.state.Connected()
}
