package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/mtlprog/dbprobe/internal/domain"
)

// Mongo wraps a mongo.Client and the database selected on it.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo creates a MongoDB client for uri and pings the primary.
func OpenMongo(ctx context.Context, uri, name string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("%w: ping mongo: %w", domain.ErrDatabaseUnavailable, err)
	}

	slog.Info("database connected", "driver", "mongodb", "database", name)

	return &Mongo{client: client, db: client.Database(name)}, nil
}

// Database returns the selected database handle.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// Name returns the selected database name.
func (m *Mongo) Name() string {
	return m.db.Name()
}

// ListDatabaseNames runs the listDatabases admin command and returns the
// names in the order the server reports them.
func (m *Mongo) ListDatabaseNames(ctx context.Context) ([]string, error) {
	names, err := m.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return nil, fmt.Errorf("list mongo databases: %w: %w", domain.ErrDatabaseUnavailable, err)
		}
		return nil, fmt.Errorf("list mongo databases: %w", err)
	}
	return names, nil
}

// Ping checks that the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, err)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	slog.Info("database connection closed", "driver", "mongodb")
	return nil
}
