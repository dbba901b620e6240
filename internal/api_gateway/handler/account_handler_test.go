package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAccountRouter(svc *MockAccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAccountHandler(discardLogger(), svc)
	router.GET("/accounts", h.List)
	router.GET("/accounts/:client", h.GetByClient)
	return router
}

func TestAccountHandler_GetByClient(t *testing.T) {
	runID := uuid.New()
	stored := &account.StoredSnapshot{
		Snapshot: account.Snapshot{
			Client:    2,
			Available: decimal.RequireFromString("-1"),
			Held:      decimal.RequireFromString("0"),
			Total:     decimal.RequireFromString("-1"),
			Locked:    true,
		},
		RunID:     runID,
		UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name       string
		path       string
		setup      func(*MockAccountService)
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "Found",
			path: "/accounts/2",
			setup: func(m *MockAccountService) {
				m.On("GetAccount", mock.Anything, uint16(2)).Return(stored, nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				assert.Equal(t, float64(2), data["client"])
				assert.Equal(t, "-1", data["available"])
				assert.Equal(t, "0", data["held"])
				assert.Equal(t, true, data["locked"])
				assert.Equal(t, runID.String(), data["run_id"])
				assert.Equal(t, "2024-01-02T03:04:05Z", data["updated_at"])
			},
		},
		{
			name: "NotFound",
			path: "/accounts/3",
			setup: func(m *MockAccountService) {
				m.On("GetAccount", mock.Anything, uint16(3)).Return(nil, nil).Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "OutOfRangeClient",
			path:       "/accounts/70000",
			setup:      func(*MockAccountService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "NonNumericClient",
			path:       "/accounts/abc",
			setup:      func(*MockAccountService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ServiceError",
			path: "/accounts/4",
			setup: func(m *MockAccountService) {
				m.On("GetAccount", mock.Anything, uint16(4)).Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockAccountService)
			tc.setup(svc)

			rr := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tc.path, nil)
			setupAccountRouter(svc).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.check != nil {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				tc.check(t, body)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAccountHandler_List(t *testing.T) {
	t.Run("DefaultsPagination", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("ListAccounts", mock.Anything, 1, 10).Return([]*account.StoredSnapshot{}, nil).Once()

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/accounts", nil)
		setupAccountRouter(svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("InvalidPagination", func(t *testing.T) {
		svc := new(MockAccountService)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/accounts?per_page=1000", nil)
		setupAccountRouter(svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
