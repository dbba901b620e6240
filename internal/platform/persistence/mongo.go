package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/payments-engine/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoDB holds the database that keeps batch reports and exported snapshots
type MongoDB struct {
	logger   *slog.Logger
	client   *mongo.Client
	database *mongo.Database
	timeout  time.Duration // bounds setup calls such as index creation; zero means none
}

func NewMongoDB(ctx context.Context, logger *slog.Logger, cfg *config.MongoDBConfig) (*MongoDB, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("payments-engine").
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("report store: failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("report store: MongoDB did not answer ping: %w", err)
	}

	logger.Info("Report store connected", "backend", "mongodb", "database", cfg.Database)

	return &MongoDB{
		logger:   logger,
		client:   client,
		database: client.Database(cfg.Database),
		timeout:  cfg.Timeout,
	}, nil
}

func (m *MongoDB) Database() *mongo.Database {
	return m.database
}

// EnsureIndexes creates the indexes a collection's queries rely on.
// Indexes that already exist with the same definition are left as they are.
func (m *MongoDB) EnsureIndexes(ctx context.Context, collection string, models ...mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	names, err := m.database.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("report store: failed to create indexes on %s: %w", collection, err)
	}
	m.logger.Debug("Indexes ensured", "collection", collection, "indexes", names)
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("report store: failed to disconnect from MongoDB: %w", err)
	}
	m.logger.Info("Report store closed", "backend", "mongodb")
	return nil
}
