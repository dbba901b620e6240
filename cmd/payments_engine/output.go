package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/data/mongo"
	"github.com/payments-engine/internal/data/postgres"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/report"
	"github.com/payments-engine/internal/platform/csvio"
	"github.com/payments-engine/internal/platform/persistence"
	"github.com/payments-engine/internal/transaction_processor/service"
)

// output receives the final snapshot of a run
type output interface {
	Write(ctx context.Context, source string, result *service.BatchResult) error
	Close(ctx context.Context)
}

// openOutput connects the sink selected by OUTPUT_SINK
func openOutput(ctx context.Context, cfg *config.Config, log *slog.Logger, stdout io.Writer) (output, error) {
	switch cfg.Output.Sink {
	case config.SinkPostgres:
		db, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return &storeOutput{
			accounts: postgres.NewSnapshotRepository(log, db),
			close:    func(context.Context) { db.Close() },
		}, nil

	case config.SinkMongo:
		db, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		return &storeOutput{
			accounts: mongo.NewSnapshotStore(log, db.Database()),
			reports:  mongo.NewReportRepository(log, db.Database()),
			close: func(ctx context.Context) {
				if err := db.Close(ctx); err != nil {
					log.Error("Error closing MongoDB connection", "error", err)
				}
			},
		}, nil

	case config.SinkNone:
		return discardOutput{}, nil
	}
	return csvOutput{w: stdout}, nil
}

type csvOutput struct {
	w io.Writer
}

func (o csvOutput) Write(_ context.Context, _ string, result *service.BatchResult) error {
	return csvio.WriteSnapshots(o.w, result.Accounts)
}

func (csvOutput) Close(context.Context) {}

type discardOutput struct{}

func (discardOutput) Write(context.Context, string, *service.BatchResult) error { return nil }
func (discardOutput) Close(context.Context)                                     {}

// storeOutput saves the balances and, when reports is set, the run summary
type storeOutput struct {
	accounts account.Writer
	reports  report.Repository
	close    func(ctx context.Context)
}

func (o *storeOutput) Write(ctx context.Context, source string, result *service.BatchResult) error {
	if err := o.accounts.SaveAll(ctx, result.RunID, result.Accounts); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if o.reports == nil {
		return nil
	}

	rep := report.Completed(result.RunID, source, result.Accounts,
		result.Applied, result.Rejected, result.Malformed, result.RejectionsByCode,
		result.StartedAt, result.FinishedAt)
	if err := o.reports.Save(ctx, rep); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (o *storeOutput) Close(ctx context.Context) {
	o.close(ctx)
}
