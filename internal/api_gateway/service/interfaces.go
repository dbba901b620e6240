package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/report"
	"github.com/payments-engine/internal/domain/transaction"
)

// AccountService reads the balances last exported by the stream processor
type AccountService interface {
	// GetAccount returns nil when no snapshot was ever exported for the client
	GetAccount(ctx context.Context, client uint16) (*account.StoredSnapshot, error)

	// ListAccounts returns one page of snapshots ordered by client
	ListAccounts(ctx context.Context, page, perPage int) ([]*account.StoredSnapshot, error)
}

// EventService forwards single events to the stream processor
type EventService interface {
	// SubmitEvent publishes the event and returns the id it was published under
	SubmitEvent(ctx context.Context, event transaction.Event, correlationID string) (uuid.UUID, error)
}

// BatchService runs uploaded CSV files through a fresh engine
type BatchService interface {
	// RunBatch processes the whole input and returns the stored report.
	// A report is returned together with the error when the run failed.
	RunBatch(ctx context.Context, source string, input io.Reader) (*report.BatchReport, error)

	// GetReport returns nil when the run is unknown
	GetReport(ctx context.Context, runID uuid.UUID) (*report.BatchReport, error)

	ListReports(ctx context.Context, page, perPage int) ([]*report.BatchReport, error)
}
