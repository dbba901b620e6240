package report

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores batch reports, newest first when listed
type Repository interface {
	Save(ctx context.Context, report *BatchReport) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*BatchReport, error)
	List(ctx context.Context, limit, offset int) ([]*BatchReport, error)
}

// ErrReportNotFound indicates no report exists for the run
type ErrReportNotFound struct {
	RunID uuid.UUID
}

func (e ErrReportNotFound) Error() string {
	return "batch report not found: " + e.RunID.String()
}

// Is matches any ErrReportNotFound when the target carries no run id
func (e ErrReportNotFound) Is(target error) bool {
	t, ok := target.(ErrReportNotFound)
	if !ok {
		return false
	}
	if t.RunID == uuid.Nil {
		return true
	}
	return e.RunID == t.RunID
}
