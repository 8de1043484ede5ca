package storage

import (
	"context"
	"fmt"

	"github.com/fixmyward/ward-server/internal/config"
	"github.com/fixmyward/ward-server/internal/database"
)

// Open connects the backend selected by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case "memory":
		return NewMemoryStore(), nil

	case "sqlite":
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s, err := NewSQLiteStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return s, nil

	case "postgres":
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil

	case "redis":
		client, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil

	case "mongo":
		db, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(db), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
