package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/report"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, client uint16) (*account.StoredSnapshot, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.StoredSnapshot), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, page, perPage int) ([]*account.StoredSnapshot, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.StoredSnapshot), args.Error(1)
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) SubmitEvent(ctx context.Context, event transaction.Event, correlationID string) (uuid.UUID, error) {
	args := m.Called(ctx, event, correlationID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) RunBatch(ctx context.Context, source string, input io.Reader) (*report.BatchReport, error) {
	args := m.Called(ctx, source, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.BatchReport), args.Error(1)
}

func (m *MockBatchService) GetReport(ctx context.Context, runID uuid.UUID) (*report.BatchReport, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.BatchReport), args.Error(1)
}

func (m *MockBatchService) ListReports(ctx context.Context, page, perPage int) ([]*report.BatchReport, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.BatchReport), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
