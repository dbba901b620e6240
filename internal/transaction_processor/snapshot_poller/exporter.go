package snapshot_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
)

// Exporter persists a full set of account snapshots
type Exporter interface {
	Export(ctx context.Context, runID uuid.UUID, snapshots []account.Snapshot) error
}

// RepositoryExporter writes snapshots to one or more account stores.
// Every repository is attempted; failures are joined.
type RepositoryExporter struct {
	repos  []account.Writer
	logger *slog.Logger
}

func NewRepositoryExporter(logger *slog.Logger, repos ...account.Writer) *RepositoryExporter {
	return &RepositoryExporter{repos: repos, logger: logger}
}

func (e *RepositoryExporter) Export(ctx context.Context, runID uuid.UUID, snapshots []account.Snapshot) error {
	var errs []error
	for i, repo := range e.repos {
		if err := repo.SaveAll(ctx, runID, snapshots); err != nil {
			e.logger.Error("Failed to save snapshots", "repository", i, "run_id", runID.String(), "error", err)
			errs = append(errs, fmt.Errorf("repository %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
