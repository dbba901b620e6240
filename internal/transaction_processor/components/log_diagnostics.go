package components

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/transaction_processor/service"
)

// LogDiagnostics writes every diagnostic as a structured warning
type LogDiagnostics struct {
	logger *slog.Logger
}

func NewLogDiagnostics(logger *slog.Logger) *LogDiagnostics {
	return &LogDiagnostics{logger: logger.With("component", "diagnostics")}
}

func (d *LogDiagnostics) Rejected(ctx context.Context, r service.RowRejection) {
	d.logger.WarnContext(ctx, r.Err.Error(),
		"run_id", r.RunID.String(),
		"seq", r.Sequence,
		"code", r.Code,
		"type", r.Event.Type,
		"client", r.Event.Client,
		"tx", r.Event.Tx,
	)
}

func (d *LogDiagnostics) Malformed(ctx context.Context, runID uuid.UUID, row int, err error) {
	d.logger.WarnContext(ctx, "csv error: deserialize of row failed",
		"run_id", runID.String(),
		"row", row,
		"error", err,
	)
}

func (d *LogDiagnostics) Empty(ctx context.Context, runID uuid.UUID) {
	d.logger.WarnContext(ctx, "csv error: table is empty, all rows had errors or columns don't match",
		"run_id", runID.String(),
	)
}

// DiscardDiagnostics drops everything. Used when diagnostics are disabled.
type DiscardDiagnostics struct{}

func (DiscardDiagnostics) Rejected(context.Context, service.RowRejection)   {}
func (DiscardDiagnostics) Malformed(context.Context, uuid.UUID, int, error) {}
func (DiscardDiagnostics) Empty(context.Context, uuid.UUID)                 {}

// MultiDiagnostics forwards each diagnostic to every sink in order
type MultiDiagnostics []service.DiagnosticSink

func (m MultiDiagnostics) Rejected(ctx context.Context, r service.RowRejection) {
	for _, sink := range m {
		sink.Rejected(ctx, r)
	}
}

func (m MultiDiagnostics) Malformed(ctx context.Context, runID uuid.UUID, row int, err error) {
	for _, sink := range m {
		sink.Malformed(ctx, runID, row, err)
	}
}

func (m MultiDiagnostics) Empty(ctx context.Context, runID uuid.UUID) {
	for _, sink := range m {
		sink.Empty(ctx, runID)
	}
}
