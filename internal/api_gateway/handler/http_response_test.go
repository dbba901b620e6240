package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/payments-engine/internal/api_gateway/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		respond    func(c *gin.Context)
		wantStatus int
		wantCode   string
		wantMeta   bool
	}{
		{"ok", func(c *gin.Context) { RespondOK(c, "x") }, http.StatusOK, "", false},
		{"page", func(c *gin.Context) { RespondPage(c, []int{}, PaginationParams{Page: 2, PerPage: 5}) }, http.StatusOK, "", true},
		{"not found default message", func(c *gin.Context) { RespondNotFound(c, "") }, http.StatusNotFound, "NOT_FOUND", false},
		{"too large", RespondPayloadTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", false},
		{"internal", RespondInternalError, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(middleware.CorrelationID())
			router.GET("/", tc.respond)

			rr := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.CorrelationIDHeader, "corr-1")
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "corr-1", resp.CorrelationID)
			if tc.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
				assert.NotEmpty(t, resp.Error.Message)
			}
			if tc.wantMeta {
				require.NotNil(t, resp.Meta)
				assert.Equal(t, 2, resp.Meta.Page)
				assert.Equal(t, 5, resp.Meta.PerPage)
			}
		})
	}
}
