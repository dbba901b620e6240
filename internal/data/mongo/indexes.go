package mongo

import (
	"context"

	"github.com/payments-engine/internal/platform/persistence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportIndexes back GetByRunID and the newest-first List
func ReportIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "run_id", Value: 1}}, Options: options.Index().SetName("run_id_unique").SetUnique(true)},
		{Keys: bson.D{{Key: "started_at", Value: -1}}, Options: options.Index().SetName("started_at_desc")},
	}
}

// SnapshotIndexes back the per-client upsert of SnapshotStore
func SnapshotIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "client", Value: 1}}, Options: options.Index().SetName("client_unique").SetUnique(true)},
	}
}

// EnsureIndexes prepares both collections used by this package
func EnsureIndexes(ctx context.Context, db *persistence.MongoDB) error {
	if err := db.EnsureIndexes(ctx, ReportCollectionName, ReportIndexes()...); err != nil {
		return err
	}
	return db.EnsureIndexes(ctx, SnapshotCollectionName, SnapshotIndexes()...)
}
