package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/report"
	"github.com/payments-engine/internal/domain/shared"
	processor "github.com/payments-engine/internal/transaction_processor/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
withdrawal, 2, 5, 3.0
`

func TestBatchServiceImpl_RunBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("CompletedRunIsReportedAndSaved", func(t *testing.T) {
		reports := new(MockReportRepository)
		reports.On("Save", mock.Anything, mock.MatchedBy(func(r *report.BatchReport) bool {
			return r.Status == shared.BatchStatusCompleted && r.Source == "tx.csv"
		})).Return(nil).Once()

		runner := processor.NewBatchService(noopSink{}, 4, discardLogger())
		svc := NewBatchService(discardLogger(), runner, reports, true)

		rep, err := svc.RunBatch(ctx, "tx.csv", strings.NewReader(sampleCSV))
		require.NoError(t, err)

		assert.Equal(t, 4, rep.Applied)
		assert.Equal(t, 1, rep.Rejected)
		assert.Equal(t, 1, rep.RejectionsByCode[shared.RejectionInsufficientFunds])
		require.Len(t, rep.Accounts, 2)
		assert.Equal(t, "1.5", rep.Accounts[0].Available.String())
		assert.Equal(t, "2", rep.Accounts[1].Total.String())
		reports.AssertExpectations(t)
	})

	t.Run("FailedRunIsSavedAndReturned", func(t *testing.T) {
		reports := new(MockReportRepository)
		reports.On("Save", mock.Anything, mock.MatchedBy(func(r *report.BatchReport) bool {
			return r.Status == shared.BatchStatusFailed
		})).Return(nil).Once()

		runner := new(MockBatchRunner)
		runErr := errors.New("failed to read input: boom")
		runner.On("Run", ctx, mock.Anything).Return(nil, runErr).Once()

		rep, err := NewBatchService(discardLogger(), runner, reports, true).RunBatch(ctx, "upload", strings.NewReader(""))
		assert.ErrorIs(t, err, runErr)
		require.NotNil(t, rep)
		assert.Equal(t, runErr.Error(), rep.FailureReason)
		reports.AssertExpectations(t)
	})

	t.Run("SaveFailureDoesNotFailRun", func(t *testing.T) {
		reports := new(MockReportRepository)
		reports.On("Save", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()

		runner := processor.NewBatchService(noopSink{}, 4, discardLogger())
		rep, err := NewBatchService(discardLogger(), runner, reports, true).RunBatch(ctx, "x", strings.NewReader(sampleCSV))
		assert.NoError(t, err)
		assert.NotNil(t, rep)
	})

	t.Run("WithoutReportRepository", func(t *testing.T) {
		runner := processor.NewBatchService(noopSink{}, 4, discardLogger())
		svc := NewBatchService(discardLogger(), runner, nil, true)

		rep, err := svc.RunBatch(ctx, "x", strings.NewReader(sampleCSV))
		require.NoError(t, err)
		assert.Len(t, rep.Accounts, 2)

		got, err := svc.GetReport(ctx, rep.RunID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestBatchServiceImpl_GetReport(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()

	t.Run("NotFoundIsNil", func(t *testing.T) {
		reports := new(MockReportRepository)
		reports.On("GetByRunID", ctx, runID).Return(nil, report.ErrReportNotFound{RunID: runID}).Once()

		got, err := NewBatchService(discardLogger(), new(MockBatchRunner), reports, true).GetReport(ctx, runID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Error", func(t *testing.T) {
		reports := new(MockReportRepository)
		reports.On("GetByRunID", ctx, runID).Return(nil, errors.New("timeout")).Once()

		_, err := NewBatchService(discardLogger(), new(MockBatchRunner), reports, true).GetReport(ctx, runID)
		assert.Error(t, err)
	})

	t.Run("List", func(t *testing.T) {
		reports := new(MockReportRepository)
		reports.On("List", ctx, 10, 10).Return([]*report.BatchReport{{RunID: runID}}, nil).Once()

		got, err := NewBatchService(discardLogger(), new(MockBatchRunner), reports, true).ListReports(ctx, 2, 10)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
