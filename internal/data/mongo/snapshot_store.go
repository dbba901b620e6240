package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/payments-engine/internal/domain/account"
)

// SnapshotCollectionName holds the latest exported balance of every client
const SnapshotCollectionName = "account_snapshots"

// SnapshotStore implements account.Writer for MongoDB, one document per client
type SnapshotStore struct {
	db     *mongo.Database
	logger *slog.Logger
	now    func() time.Time
}

func NewSnapshotStore(logger *slog.Logger, db *mongo.Database) *SnapshotStore {
	return &SnapshotStore{db: db, logger: logger, now: time.Now}
}

// SaveAll replaces every client's document in one unordered bulk write
func (s *SnapshotStore) SaveAll(ctx context.Context, runID uuid.UUID, snapshots []account.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	updatedAt := s.now().UTC()
	models := make([]mongo.WriteModel, 0, len(snapshots))
	for _, snap := range snapshots {
		doc := toAccountDocument(snap)
		doc.RunID = runID.String()
		doc.UpdatedAt = updatedAt
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"client": doc.Client}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	_, err := s.db.Collection(SnapshotCollectionName).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		s.logger.Error("Failed to save account snapshots", "run_id", runID.String(), "count", len(snapshots), "error", err)
		return fmt.Errorf("failed to save account snapshots: %w", err)
	}
	return nil
}

var _ account.Writer = (*SnapshotStore)(nil)
