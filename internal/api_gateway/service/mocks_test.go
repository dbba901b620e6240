package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/report"
	"github.com/payments-engine/internal/domain/shared"
	processor "github.com/payments-engine/internal/transaction_processor/service"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAll(ctx context.Context, runID uuid.UUID, snapshots []account.Snapshot) error {
	args := m.Called(ctx, runID, snapshots)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByClient(ctx context.Context, client uint16) (*account.StoredSnapshot, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.StoredSnapshot), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*account.StoredSnapshot, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.StoredSnapshot), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(ctx context.Context, rep *report.BatchReport) error {
	args := m.Called(ctx, rep)
	return args.Error(0)
}

func (m *MockReportRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*report.BatchReport, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.BatchReport), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, limit, offset int) ([]*report.BatchReport, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.BatchReport), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, msg shared.EventMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type MockBatchRunner struct {
	mock.Mock
}

func (m *MockBatchRunner) Run(ctx context.Context, source processor.Source) (*processor.BatchResult, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.BatchResult), args.Error(1)
}

type noopSink struct{}

func (noopSink) Rejected(context.Context, processor.RowRejection) {}
func (noopSink) Malformed(context.Context, uuid.UUID, int, error) {}
func (noopSink) Empty(context.Context, uuid.UUID)                 {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
