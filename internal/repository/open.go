package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dan9191/exercise-tracker/internal/config"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"
)

// Open connects to the backend selected by cfg.StoreDriver and verifies it
// answers a ping. The schema is not touched; call Migrate for that.
func Open(ctx context.Context, cfg *config.Config) (Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemoryRepository(), nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err := sql.Open("sqlite", cfg.SQLitePath+"?_pragma=foreign_keys(1)")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// SQLite allows one writer; serialize through a single connection.
		db.SetMaxOpenConns(1)
		return pinged(ctx, NewSQLRepository(db, DialectSQLite))

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return pinged(ctx, NewSQLRepository(db, DialectPostgres))

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		return pinged(ctx, NewMongoRepository(client, cfg.MongoDatabase))
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func pinged(ctx context.Context, repo Repository) (Repository, error) {
	if err := repo.Ping(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return repo, nil
}
