package snapshot_poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/transaction_processor/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAccountRepo mocks account.Repository
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) SaveAll(ctx context.Context, runID uuid.UUID, snapshots []account.Snapshot) error {
	args := m.Called(ctx, runID, snapshots)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByClient(ctx context.Context, client uint16) (*account.StoredSnapshot, error) {
	args := m.Called(ctx, client)
	s, _ := args.Get(0).(*account.StoredSnapshot)
	return s, args.Error(1)
}

func (m *MockAccountRepo) List(ctx context.Context, limit, offset int) ([]*account.StoredSnapshot, error) {
	args := m.Called(ctx, limit, offset)
	s, _ := args.Get(0).([]*account.StoredSnapshot)
	return s, args.Error(1)
}

// MockExporter mocks Exporter
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, runID uuid.UUID, snapshots []account.Snapshot) error {
	args := m.Called(ctx, runID, snapshots)
	return args.Error(0)
}

type fakeSource struct {
	mu        sync.Mutex
	runID     uuid.UUID
	snapshots []account.Snapshot
	stats     service.StreamStats
}

func (f *fakeSource) RunID() uuid.UUID { return f.runID }

func (f *fakeSource) Snapshot() []account.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots
}

func (f *fakeSource) Stats() service.StreamStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func (f *fakeSource) apply(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats.Applied += n
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleSnapshots() []account.Snapshot {
	return []account.Snapshot{{
		Client:    1,
		Available: decimal.RequireFromString("1.5"),
		Held:      decimal.Zero,
		Total:     decimal.RequireFromString("1.5"),
	}}
}

func TestPoller_ExportIfChanged(t *testing.T) {
	ctx := context.Background()
	cfg := &config.SnapshotConfig{PollingInterval: time.Second}

	t.Run("ExportsOnlyAfterNewEvents", func(t *testing.T) {
		source := &fakeSource{runID: uuid.New(), snapshots: sampleSnapshots()}
		source.apply(1)
		exporter := &MockExporter{}
		exporter.On("Export", ctx, source.runID, source.snapshots).Return(nil).Twice()

		poller := NewPoller(cfg, source, exporter, testLogger())

		require.NoError(t, poller.exportIfChanged(ctx))
		require.NoError(t, poller.exportIfChanged(ctx))
		source.apply(2)
		require.NoError(t, poller.exportIfChanged(ctx))

		exporter.AssertNumberOfCalls(t, "Export", 2)
	})

	t.Run("NothingToExport", func(t *testing.T) {
		source := &fakeSource{runID: uuid.New()}
		exporter := &MockExporter{}

		poller := NewPoller(cfg, source, exporter, testLogger())
		require.NoError(t, poller.exportIfChanged(ctx))
		exporter.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("FailedExportIsRetriedNextTick", func(t *testing.T) {
		source := &fakeSource{runID: uuid.New(), snapshots: sampleSnapshots()}
		source.apply(1)
		exporter := &MockExporter{}
		exporter.On("Export", ctx, source.runID, mock.Anything).Return(errors.New("db down")).Once()
		exporter.On("Export", ctx, source.runID, mock.Anything).Return(nil).Once()

		poller := NewPoller(cfg, source, exporter, testLogger())
		assert.ErrorContains(t, poller.exportIfChanged(ctx), "db down")
		require.NoError(t, poller.exportIfChanged(ctx))
		exporter.AssertExpectations(t)
	})
}

func TestPoller_StartExportsOnShutdown(t *testing.T) {
	source := &fakeSource{runID: uuid.New(), snapshots: sampleSnapshots()}
	source.apply(1)
	exporter := &MockExporter{}
	exporter.On("Export", mock.Anything, source.runID, source.snapshots).Return(nil)

	poller := NewPoller(&config.SnapshotConfig{PollingInterval: time.Hour}, source, exporter, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx, context.Background())
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
	exporter.AssertNumberOfCalls(t, "Export", 1)
}

func TestRepositoryExporter(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()
	snapshots := sampleSnapshots()

	t.Run("AllRepositoriesSucceed", func(t *testing.T) {
		first, second := &MockAccountRepo{}, &MockAccountRepo{}
		first.On("SaveAll", ctx, runID, snapshots).Return(nil).Once()
		second.On("SaveAll", ctx, runID, snapshots).Return(nil).Once()

		require.NoError(t, NewRepositoryExporter(testLogger(), first, second).Export(ctx, runID, snapshots))
		first.AssertExpectations(t)
		second.AssertExpectations(t)
	})

	t.Run("OneFailureStillWritesOthers", func(t *testing.T) {
		first, second := &MockAccountRepo{}, &MockAccountRepo{}
		saveErr := errors.New("mongo unavailable")
		first.On("SaveAll", ctx, runID, snapshots).Return(saveErr).Once()
		second.On("SaveAll", ctx, runID, snapshots).Return(nil).Once()

		err := NewRepositoryExporter(testLogger(), first, second).Export(ctx, runID, snapshots)
		assert.ErrorIs(t, err, saveErr)
		second.AssertExpectations(t)
	})
}
