package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/report"
	"github.com/payments-engine/internal/platform/csvio"
	processor "github.com/payments-engine/internal/transaction_processor/service"
)

// BatchServiceImpl implements the BatchService interface. Reports are kept
// only when a report repository is configured.
type BatchServiceImpl struct {
	runner     processor.BatchRunner
	reports    report.Repository
	trimSpaces bool
	logger     *slog.Logger
}

func NewBatchService(logger *slog.Logger, runner processor.BatchRunner, reports report.Repository, trimSpaces bool) BatchService {
	return &BatchServiceImpl{
		runner:     runner,
		reports:    reports,
		trimSpaces: trimSpaces,
		logger:     logger,
	}
}

func (s *BatchServiceImpl) RunBatch(ctx context.Context, source string, input io.Reader) (*report.BatchReport, error) {
	startedAt := time.Now().UTC()
	reader := csvio.NewReader(input, csvio.WithTrimSpaces(s.trimSpaces))

	result, err := s.runner.Run(ctx, reader)
	if err != nil {
		failed := report.Failed(source, err, startedAt, time.Now().UTC())
		s.logger.Warn("Batch run failed", "run_id", failed.RunID.String(), "source", source, "error", err)
		s.save(ctx, failed)
		return failed, err
	}

	rep := report.Completed(result.RunID, source, result.Accounts,
		result.Applied, result.Rejected, result.Malformed, result.RejectionsByCode,
		result.StartedAt, result.FinishedAt)
	s.save(ctx, rep)
	return rep, nil
}

// save keeps the report on a best-effort basis; the caller already has it
func (s *BatchServiceImpl) save(ctx context.Context, rep *report.BatchReport) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Save(context.WithoutCancel(ctx), rep); err != nil {
		s.logger.Error("Failed to save batch report", "run_id", rep.RunID.String(), "error", err)
	}
}

func (s *BatchServiceImpl) GetReport(ctx context.Context, runID uuid.UUID) (*report.BatchReport, error) {
	if s.reports == nil {
		return nil, nil
	}
	rep, err := s.reports.GetByRunID(ctx, runID)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound{}) {
			return nil, nil
		}
		s.logger.Error("Failed to get batch report", "run_id", runID.String(), "error", err)
		return nil, err
	}
	return rep, nil
}

func (s *BatchServiceImpl) ListReports(ctx context.Context, page, perPage int) ([]*report.BatchReport, error) {
	if s.reports == nil {
		return nil, nil
	}
	return s.reports.List(ctx, perPage, (page-1)*perPage)
}
