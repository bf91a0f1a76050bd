package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joeyave/campus-hub/configs"
	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/repository"
)

// Copies the demo events served while offline into MongoDB. Events whose title
// already exists are skipped, so running it twice is harmless.
func main() {
	conf, err := configs.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	mongoClient, state, err := repository.ConnectMongo(conf.MongoURI, conf.MongoConnectTimeout)
	if err != nil {
		panic(fmt.Sprintf("failed to connect mongo: %v", err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := repository.NewMongoStore(mongoClient, conf.MongoDBName, state)
	seed := repository.NewFallbackStore(repository.WithSeedData())

	existing, err := store.FindEvents(ctx, entity.EventFilter{})
	if err != nil {
		panic(fmt.Sprintf("failed to load events: %v", err))
	}
	titles := make(map[string]bool, len(existing))
	for _, event := range existing {
		titles[event.Title] = true
	}

	events, err := seed.FindEvents(ctx, entity.EventFilter{})
	if err != nil {
		panic(fmt.Sprintf("failed to load seed events: %v", err))
	}

	inserted := 0
	skipped := 0
	failed := 0

	for _, event := range events {
		if titles[event.Title] {
			skipped++
			fmt.Printf("[SKIP] %s\n", event.Title)
			continue
		}
		created, err := store.CreateEvent(ctx, *event)
		if err != nil {
			failed++
			fmt.Printf("[FAIL] %s: %v\n", event.Title, err)
			continue
		}
		inserted++
		fmt.Printf("[OK] %s %s\n", created.ID, created.Title)
	}

	fmt.Printf("Seeding finished. inserted=%d skipped=%d failed=%d\n", inserted, skipped, failed)
}
