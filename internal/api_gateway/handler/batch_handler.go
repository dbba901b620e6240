package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payments-engine/internal/api_gateway/service"
	"github.com/payments-engine/internal/platform/csvio"
)

const (
	uploadFormField = "file"
	csvContentType  = "text/csv; charset=utf-8"
)

// BatchHandler runs uploaded CSV files through the engine
type BatchHandler struct {
	batchService service.BatchService
	maxBytes     int64
	logger       *slog.Logger
}

func NewBatchHandler(logger *slog.Logger, batchService service.BatchService, maxBytes int64) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
		maxBytes:     maxBytes,
		logger:       logger,
	}
}

// Create runs a batch. The CSV may be sent as the raw body or as the "file"
// field of a multipart form. With ?format=csv the response is the snapshot in
// the same CSV layout the CLI prints; otherwise it is the JSON report.
func (h *BatchHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	input, source, err := h.openUpload(c)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}
	defer input.Close()

	rep, err := h.batchService.RunBatch(c.Request.Context(), source, input)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondUploadError(c, err)
			return
		}
		h.logger.Warn("Batch run failed", "source", source, "error", err)
		if rep == nil {
			RespondInternalError(c)
			return
		}
		RespondWithData(c, http.StatusUnprocessableEntity, mapReportToResponse(rep))
		return
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := csvio.WriteSnapshots(&buf, rep.Accounts); err != nil {
			h.logger.Error("Failed to render snapshot", "run_id", rep.RunID.String(), "error", err)
			RespondInternalError(c)
			return
		}
		c.Header("X-Run-ID", rep.RunID.String())
		c.Data(http.StatusOK, csvContentType, buf.Bytes())
		return
	}

	RespondCreated(c, mapReportToResponse(rep))
}

func (h *BatchHandler) openUpload(c *gin.Context) (io.ReadCloser, string, error) {
	if c.ContentType() == "multipart/form-data" {
		header, err := c.FormFile(uploadFormField)
		if err != nil {
			return nil, "", err
		}
		file, err := header.Open()
		if err != nil {
			return nil, "", err
		}
		return file, header.Filename, nil
	}
	return c.Request.Body, "upload", nil
}

func (h *BatchHandler) respondUploadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondPayloadTooLarge(c)
		return
	}
	RespondBadRequest(c, "Invalid upload: "+err.Error())
}

// GetByID returns a stored batch report, 404 if unknown
func (h *BatchHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	runID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid run id")
		return
	}

	rep, err := h.batchService.GetReport(c.Request.Context(), runID)
	if err != nil {
		h.logger.Error("Failed to get batch report", "run_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}
	if rep == nil {
		RespondNotFound(c, "Batch report not found")
		return
	}

	RespondOK(c, mapReportToResponse(rep))
}

// List returns stored batch reports, most recent first
func (h *BatchHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	reports, err := h.batchService.ListReports(c.Request.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list batch reports", "error", err)
		RespondInternalError(c)
		return
	}

	out := make([]BatchReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, mapReportToResponse(r))
	}
	RespondPage(c, out, pagination)
}
