package service

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDiagnosticSink mocks the DiagnosticSink interface
type MockDiagnosticSink struct {
	mock.Mock
}

func (m *MockDiagnosticSink) Rejected(ctx context.Context, rejection RowRejection) {
	m.Called(ctx, rejection)
}

func (m *MockDiagnosticSink) Malformed(ctx context.Context, runID uuid.UUID, row int, err error) {
	m.Called(ctx, runID, row, err)
}

func (m *MockDiagnosticSink) Empty(ctx context.Context, runID uuid.UUID) {
	m.Called(ctx, runID)
}

// recordingSink keeps every diagnostic it receives
type recordingSink struct {
	mu        sync.Mutex
	rejected  []RowRejection
	malformed []error
	empty     int
}

func (r *recordingSink) Rejected(_ context.Context, rejection RowRejection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, rejection)
}

func (r *recordingSink) Malformed(_ context.Context, _ uuid.UUID, _ int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.malformed = append(r.malformed, err)
}

func (r *recordingSink) Empty(context.Context, uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.empty++
}

// sliceSource yields fixed results, then io.EOF
type sliceSource struct {
	items []sourceItem
	pos   int
}

type sourceItem struct {
	event transaction.Event
	err   error
}

func (s *sliceSource) Next() (transaction.Event, error) {
	if s.pos >= len(s.items) {
		return transaction.Event{}, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item.event, item.err
}

func eventsSource(events ...transaction.Event) *sliceSource {
	src := &sliceSource{}
	for _, ev := range events {
		src.items = append(src.items, sourceItem{event: ev})
	}
	return src
}

func deposit(client uint16, tx uint32, amount string) transaction.Event {
	return transaction.NewDeposit(client, tx, decimal.RequireFromString(amount))
}

func withdrawal(client uint16, tx uint32, amount string) transaction.Event {
	return transaction.NewWithdrawal(client, tx, decimal.RequireFromString(amount))
}

func reference(t transaction.Type, client uint16, tx uint32) transaction.Event {
	return transaction.NewReference(t, client, tx)
}
