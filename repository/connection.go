package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ConnectionState follows driver heartbeats so the connectivity probe never blocks.
type ConnectionState struct {
	connected atomic.Bool
}

func (s *ConnectionState) Connected() bool {
	if s == nil {
		return false
	}
	return s.connected.Load()
}

func (s *ConnectionState) Set(connected bool) {
	if s.connected.Swap(connected) != connected {
		if connected {
			log.Info().Msg("MongoDB connection established")
		} else {
			log.Warn().Msg("MongoDB connection lost, serving from fallback store")
		}
	}
}

func (s *ConnectionState) Monitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
			s.Set(true)
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			log.Debug().Err(e.Failure).Msg("MongoDB heartbeat failed")
			s.Set(false)
		},
	}
}

// ConnectMongo creates the client and pings the primary. When the ping keeps failing the
// client is still returned: the driver reconnects on its own and the heartbeat monitor
// flips the state once the server answers.
func ConnectMongo(uri string, timeout time.Duration) (*mongo.Client, *ConnectionState, error) {
	if uri == "" {
		return nil, &ConnectionState{}, errors.New("mongo uri is empty")
	}

	state := &ConnectionState{}
	opts := options.Client().
		ApplyURI(uri).
		SetServerMonitor(state.Monitor()).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, state, fmt.Errorf("connect mongo: %w", err)
	}

	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)
	err = retrier.Run(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return client.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		return client, state, fmt.Errorf("ping mongo: %w", err)
	}

	state.Set(true)
	return client, state, nil
}

// collection resolves a collection lazily so a store built without a client
// reports ErrStoreUnavailable instead of panicking.
type collection struct {
	client *mongo.Client
	dbName string
	name   string
}

func (c collection) get() (*mongo.Collection, error) {
	if c.client == nil {
		return nil, ErrStoreUnavailable
	}
	return c.client.Database(c.dbName).Collection(c.name), nil
}

func wrapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return err
	case errors.Is(err, mongo.ErrClientDisconnected), mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrStoreOperationFailed, err)
	}
}
