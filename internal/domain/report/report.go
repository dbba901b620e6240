package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/shared"
)

// BatchReport records the outcome of one batch run: where the events came
// from, what the engine did with them and the final balances.
type BatchReport struct {
	RunID            uuid.UUID                    `json:"run_id"`
	Source           string                       `json:"source"`
	Status           shared.BatchStatus           `json:"status"`
	Applied          int                          `json:"applied"`
	Rejected         int                          `json:"rejected"`
	Malformed        int                          `json:"malformed"`
	RejectionsByCode map[shared.RejectionCode]int `json:"rejections_by_code,omitempty"`
	Accounts         []account.Snapshot           `json:"accounts"`
	FailureReason    string                       `json:"failure_reason,omitempty"`
	StartedAt        time.Time                    `json:"started_at"`
	FinishedAt       time.Time                    `json:"finished_at"`
}

// Completed builds the report of a run that consumed its whole source
func Completed(runID uuid.UUID, source string, accounts []account.Snapshot, applied, rejected, malformed int,
	byCode map[shared.RejectionCode]int, startedAt, finishedAt time.Time) *BatchReport {
	return &BatchReport{
		RunID:            runID,
		Source:           source,
		Status:           shared.BatchStatusCompleted,
		Applied:          applied,
		Rejected:         rejected,
		Malformed:        malformed,
		RejectionsByCode: byCode,
		Accounts:         accounts,
		StartedAt:        startedAt,
		FinishedAt:       finishedAt,
	}
}

// Failed builds the report of a run aborted by an unreadable source or cancellation
func Failed(source string, cause error, startedAt, finishedAt time.Time) *BatchReport {
	return &BatchReport{
		RunID:         uuid.New(),
		Source:        source,
		Status:        shared.BatchStatusFailed,
		FailureReason: cause.Error(),
		StartedAt:     startedAt,
		FinishedAt:    finishedAt,
	}
}

// Duration is how long the run took
func (r *BatchReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
