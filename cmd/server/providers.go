package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/techLii/chatobi/internal/cache"
	"github.com/techLii/chatobi/internal/config"
	"github.com/techLii/chatobi/internal/hub"
	"github.com/techLii/chatobi/internal/repository/memory"
	"github.com/techLii/chatobi/internal/repository/mongo"
	"github.com/techLii/chatobi/internal/repository/postgres"
	"github.com/techLii/chatobi/internal/service"
	"github.com/techLii/chatobi/internal/vote"
)

// Stores are the persistence adapters selected by STORE_DRIVER.
type Stores struct {
	Users    service.IUserRepository
	Sessions service.ISessionRepository
	Messages service.IMessageRepository
	Events   service.IEventRepository
	DMs      service.IDirectMessageRepository
	Profiles service.IProfileRepository
}

func provideStores(ctx context.Context, cfg *config.Config) (*Stores, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Println("Using the in-memory store, nothing will be persisted")
		store := memory.NewStore()
		return &Stores{
			Users:    store,
			Sessions: store,
			Messages: store,
			Events:   store,
			DMs:      store,
			Profiles: store,
		}, func() {}, nil
	}

	pg, pgCleanup, err := providePostgresDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	db, mongoCleanup, err := provideMongoDB(ctx, cfg)
	if err != nil {
		pgCleanup()
		return nil, nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		mongoCleanup()
		pgCleanup()
		return nil, nil, err
	}
	cleanup := func() {
		mongoCleanup()
		pgCleanup()
	}
	return &Stores{
		Users:    postgres.NewUserRepository(pg),
		Sessions: postgres.NewSessionRepository(pg),
		Messages: mongo.NewMessageRepository(db),
		Events:   mongo.NewEventRepository(db),
		DMs:      mongo.NewDirectMessageRepository(db),
		Profiles: mongo.NewProfileRepository(db),
	}, cleanup, nil
}

func providePostgresDB(ctx context.Context, cfg *config.Config) (*sql.DB, func(), error) {
	if err := postgres.RunMigrations(cfg.PostgresURL, cfg.MigrationsPath); err != nil {
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}
	db, err := postgres.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Close() }
	return db, cleanup, nil
}

func provideMongoDB(ctx context.Context, cfg *config.Config) (*mongodriver.Database, func(), error) {
	db, err := mongo.NewDB(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Printf("Failed to disconnect from mongo: %v", err)
		}
	}
	return db, cleanup, nil
}

func provideContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() { cancel() }
}

func provideVoteStore(stores *Stores) vote.Store {
	return stores.Messages
}

func provideSessionTTL(cfg *config.Config) time.Duration {
	return cfg.SessionTTL
}

func provideNameCache(cfg *config.Config) *cache.LRU[string] {
	return cache.NewLRU[string](cfg.NameCacheSize)
}

func provideHubOptions(cfg *config.Config) hub.Options {
	return hub.Options{RateLimit: cfg.RateLimit, RateBurst: cfg.RateBurst}
}
