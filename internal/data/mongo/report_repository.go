package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/payments-engine/internal/domain/report"
)

const (
	// ReportCollectionName is the name of the batch report collection in MongoDB
	ReportCollectionName = "batch_reports"
)

// ReportRepository implements the report.Repository interface for MongoDB
type ReportRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReportRepository creates a new MongoDB report repository
func NewReportRepository(logger *slog.Logger, db *mongo.Database) report.Repository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores a report. Saving the same run again replaces the earlier document.
func (r *ReportRepository) Save(ctx context.Context, rep *report.BatchReport) error {
	collection := r.db.Collection(ReportCollectionName)

	doc := toReportDocument(rep)
	filter := bson.M{"run_id": doc.RunID}
	_, err := collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to save batch report",
			"run_id", doc.RunID,
			"error", err)
		return fmt.Errorf("failed to save batch report: %w", err)
	}

	return nil
}

// GetByRunID retrieves the report of one run.
// Returns ErrReportNotFound if no report exists for the run.
func (r *ReportRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*report.BatchReport, error) {
	collection := r.db.Collection(ReportCollectionName)

	var doc reportDocument
	err := collection.FindOne(ctx, bson.M{"run_id": runID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, report.ErrReportNotFound{RunID: runID}
		}
		r.logger.Error("Failed to get batch report",
			"run_id", runID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get batch report: %w", err)
	}

	return doc.toReport()
}

// List retrieves paginated reports, most recently started first
func (r *ReportRepository) List(ctx context.Context, limit, offset int) ([]*report.BatchReport, error) {
	collection := r.db.Collection(ReportCollectionName)

	opts := options.Find().
		SetSort(bson.M{"started_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list batch reports", "error", err)
		return nil, fmt.Errorf("failed to list batch reports: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reportDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode batch reports", "error", err)
		return nil, fmt.Errorf("failed to decode batch reports: %w", err)
	}

	reports := make([]*report.BatchReport, 0, len(docs))
	for _, doc := range docs {
		rep, err := doc.toReport()
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
