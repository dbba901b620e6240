package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/payments-engine/internal/api_gateway/middleware"
)

// Response is the envelope of every JSON response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo echoes the page that was served. Totals are not counted.
type MetaInfo struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondPage sends one page of a list endpoint
func RespondPage(c *gin.Context, data interface{}, p PaginationParams) {
	c.JSON(http.StatusOK, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
		Meta:          &MetaInfo{Page: p.Page, PerPage: p.PerPage},
	})
}

func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondAccepted is used when the work happens after the response is sent
func RespondAccepted(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusAccepted, data)
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

func RespondPayloadTooLarge(c *gin.Context) {
	RespondWithError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds the size limit")
}

// RespondInternalError hides the cause, which is logged by the caller
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}
