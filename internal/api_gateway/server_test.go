package api_gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payments-engine/internal/api_gateway/middleware"
	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/report"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccounts struct{}

func (stubAccounts) GetAccount(context.Context, uint16) (*account.StoredSnapshot, error) {
	return nil, nil
}

func (stubAccounts) ListAccounts(context.Context, int, int) ([]*account.StoredSnapshot, error) {
	return []*account.StoredSnapshot{}, nil
}

type countingEvents struct {
	calls int
}

func (e *countingEvents) SubmitEvent(context.Context, transaction.Event, string) (uuid.UUID, error) {
	e.calls++
	return uuid.New(), nil
}

type stubBatches struct{}

func (stubBatches) RunBatch(context.Context, string, io.Reader) (*report.BatchReport, error) {
	return nil, io.ErrUnexpectedEOF
}

func (stubBatches) GetReport(context.Context, uuid.UUID) (*report.BatchReport, error) {
	return nil, nil
}

func (stubBatches) ListReports(context.Context, int, int) ([]*report.BatchReport, error) {
	return []*report.BatchReport{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Application: config.ApplicationConfig{Env: "test"},
		Server: config.ServerConfig{
			Port:            8080,
			ShutdownTimeout: time.Second,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			MaxBatchBytes:   1 << 20,
		},
		Redis: config.RedisConfig{IdempotencyTTL: time.Minute},
	}
}

func newTestServer(t *testing.T, events *countingEvents, cache redis.Cmdable) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	s, err := NewServer(logger, testConfig(), Services{
		Accounts: stubAccounts{},
		Events:   events,
		Batches:  stubBatches{},
	}, cache, prometheus.NewRegistry())
	require.NoError(t, err)
	return s
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, &countingEvents{}, nil)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts/1", http.StatusNotFound},
		{http.MethodGet, "/api/v1/batches", http.StatusOK},
		{http.MethodGet, "/api/v1/batches/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodGet, "/api/v1/transactions", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req, _ := http.NewRequest(tc.method, tc.path, nil)
			s.httpRouter.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get(middleware.CorrelationIDHeader))
		})
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &countingEvents{}, nil)

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	s.httpRouter.ServeHTTP(rr, req)

	rr = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	s.httpRouter.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `payments_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestServer_IdempotentEventSubmission(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	events := &countingEvents{}
	s := newTestServer(t, events, client)

	submit := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/events",
			strings.NewReader(`{"type":"deposit","client":1,"tx":1,"amount":"2.5"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.IdempotencyKeyHeader, "submit-1")
		s.httpRouter.ServeHTTP(rr, req)
		return rr
	}

	first := submit()
	second := submit()

	assert.Equal(t, http.StatusAccepted, first.Code)
	assert.Equal(t, http.StatusAccepted, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotentReplayHeader))
	assert.Equal(t, 1, events.calls)
}

func TestServer_Stop(t *testing.T) {
	s := newTestServer(t, &countingEvents{}, nil)
	s.httpServer.Addr = "127.0.0.1:0"

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, <-errCh)
}
