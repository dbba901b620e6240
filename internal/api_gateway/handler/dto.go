package handler

import (
	"time"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/report"
)

// AccountResponse is one client's balance. Amounts are decimal strings.
type AccountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
	RunID     string `json:"run_id,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SubmitEventRequest is a single engine event. Amount is required for
// deposits and withdrawals and must be absent otherwise.
type SubmitEventRequest struct {
	Type   string  `json:"type" binding:"required"`
	Client *uint16 `json:"client" binding:"required"`
	Tx     *uint32 `json:"tx" binding:"required"`
	Amount *string `json:"amount,omitempty"`
}

// EventAcceptedResponse acknowledges a published event
type EventAcceptedResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

// BatchReportResponse summarizes one batch run
type BatchReportResponse struct {
	RunID            string            `json:"run_id"`
	Source           string            `json:"source"`
	Status           string            `json:"status"`
	Applied          int               `json:"applied"`
	Rejected         int               `json:"rejected"`
	Malformed        int               `json:"malformed"`
	RejectionsByCode map[string]int    `json:"rejections_by_code,omitempty"`
	Accounts         []AccountResponse `json:"accounts"`
	FailureReason    string            `json:"failure_reason,omitempty"`
	StartedAt        string            `json:"started_at"`
	FinishedAt       string            `json:"finished_at"`
	DurationMS       int64             `json:"duration_ms"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func mapSnapshotToResponse(s account.Snapshot) AccountResponse {
	return AccountResponse{
		Client:    s.Client,
		Available: s.Available.String(),
		Held:      s.Held.String(),
		Total:     s.Total.String(),
		Locked:    s.Locked,
	}
}

func mapStoredSnapshotToResponse(s *account.StoredSnapshot) AccountResponse {
	resp := mapSnapshotToResponse(s.Snapshot)
	resp.RunID = s.RunID.String()
	resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	return resp
}

func mapReportToResponse(r *report.BatchReport) BatchReportResponse {
	resp := BatchReportResponse{
		RunID:         r.RunID.String(),
		Source:        r.Source,
		Status:        string(r.Status),
		Applied:       r.Applied,
		Rejected:      r.Rejected,
		Malformed:     r.Malformed,
		Accounts:      make([]AccountResponse, 0, len(r.Accounts)),
		FailureReason: r.FailureReason,
		StartedAt:     r.StartedAt.Format(time.RFC3339Nano),
		FinishedAt:    r.FinishedAt.Format(time.RFC3339Nano),
		DurationMS:    r.Duration().Milliseconds(),
	}
	if len(r.RejectionsByCode) > 0 {
		resp.RejectionsByCode = make(map[string]int, len(r.RejectionsByCode))
		for code, n := range r.RejectionsByCode {
			resp.RejectionsByCode[string(code)] = n
		}
	}
	for _, s := range r.Accounts {
		resp.Accounts = append(resp.Accounts, mapSnapshotToResponse(s))
	}
	return resp
}
