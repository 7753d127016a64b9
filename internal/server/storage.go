package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forgo/modelservice/internal/config"
	"github.com/forgo/modelservice/internal/database"
	"github.com/forgo/modelservice/internal/repository"
	"github.com/forgo/modelservice/internal/service"
)

// Store is a model repository that can report its own reachability
type Store interface {
	service.ModelRepository
	Ping(ctx context.Context) error
}

// CloseFunc releases the resources held by a store
type CloseFunc func() error

// OpenStore connects the backend selected by cfg.Driver
func OpenStore(ctx context.Context, cfg config.StorageConfig) (Store, CloseFunc, error) {
	switch cfg.Driver {
	case "", config.DriverMemory:
		slog.Info("using in-memory model store")
		return repository.NewMemoryModelRepository(), func() error { return nil }, nil

	case config.DriverSurreal:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Surreal.Host,
			Port:      cfg.Surreal.Port,
			User:      cfg.Surreal.User,
			Password:  cfg.Surreal.Password,
			Namespace: cfg.Surreal.Namespace,
			Database:  cfg.Surreal.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect surrealdb: %w", err)
		}
		slog.Info("connected to database",
			slog.String("driver", cfg.Driver),
			slog.String("endpoint", db.Endpoint()),
			slog.String("database", cfg.Surreal.Database),
		)
		return repository.NewSurrealModelRepository(db), db.Close, nil

	case config.DriverPostgres, config.DriverSQLite:
		dialect := database.DialectPostgres
		if cfg.Driver == config.DriverSQLite {
			dialect = database.DialectSQLite
		}
		db, err := database.OpenSQL(ctx, dialect, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
		}
		repo, err := repository.NewSQLModelRepository(ctx, db, dialect)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("prepare %s schema: %w", cfg.Driver, err)
		}
		slog.Info("connected to database", slog.String("driver", cfg.Driver))
		return repo, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
