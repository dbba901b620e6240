package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/report"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Amounts are stored as decimal strings; BSON doubles would lose digits.

type accountDocument struct {
	Client    int32     `bson:"client"`
	Available string    `bson:"available"`
	Held      string    `bson:"held"`
	Total     string    `bson:"total"`
	Locked    bool      `bson:"locked"`
	RunID     string    `bson:"run_id,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty"`
}

type reportDocument struct {
	RunID            string            `bson:"run_id"`
	Source           string            `bson:"source"`
	Status           string            `bson:"status"`
	Applied          int               `bson:"applied"`
	Rejected         int               `bson:"rejected"`
	Malformed        int               `bson:"malformed"`
	RejectionsByCode map[string]int    `bson:"rejections_by_code,omitempty"`
	Accounts         []accountDocument `bson:"accounts"`
	FailureReason    string            `bson:"failure_reason,omitempty"`
	StartedAt        time.Time         `bson:"started_at"`
	FinishedAt       time.Time         `bson:"finished_at"`
}

func toAccountDocument(s account.Snapshot) accountDocument {
	return accountDocument{
		Client:    int32(s.Client),
		Available: s.Available.String(),
		Held:      s.Held.String(),
		Total:     s.Total.String(),
		Locked:    s.Locked,
	}
}

func (d accountDocument) toSnapshot() (account.Snapshot, error) {
	available, err := decimal.NewFromString(d.Available)
	if err != nil {
		return account.Snapshot{}, fmt.Errorf("invalid available amount %q: %w", d.Available, err)
	}
	held, err := decimal.NewFromString(d.Held)
	if err != nil {
		return account.Snapshot{}, fmt.Errorf("invalid held amount %q: %w", d.Held, err)
	}
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		return account.Snapshot{}, fmt.Errorf("invalid total amount %q: %w", d.Total, err)
	}
	return account.Snapshot{
		Client:    uint16(d.Client),
		Available: available,
		Held:      held,
		Total:     total,
		Locked:    d.Locked,
	}, nil
}

func toReportDocument(r *report.BatchReport) reportDocument {
	doc := reportDocument{
		RunID:         r.RunID.String(),
		Source:        r.Source,
		Status:        string(r.Status),
		Applied:       r.Applied,
		Rejected:      r.Rejected,
		Malformed:     r.Malformed,
		Accounts:      make([]accountDocument, 0, len(r.Accounts)),
		FailureReason: r.FailureReason,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
	}
	if len(r.RejectionsByCode) > 0 {
		doc.RejectionsByCode = make(map[string]int, len(r.RejectionsByCode))
		for code, n := range r.RejectionsByCode {
			doc.RejectionsByCode[string(code)] = n
		}
	}
	for _, s := range r.Accounts {
		doc.Accounts = append(doc.Accounts, toAccountDocument(s))
	}
	return doc
}

func (d reportDocument) toReport() (*report.BatchReport, error) {
	runID, err := uuid.Parse(d.RunID)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", d.RunID, err)
	}

	r := &report.BatchReport{
		RunID:         runID,
		Source:        d.Source,
		Status:        shared.BatchStatus(d.Status),
		Applied:       d.Applied,
		Rejected:      d.Rejected,
		Malformed:     d.Malformed,
		Accounts:      make([]account.Snapshot, 0, len(d.Accounts)),
		FailureReason: d.FailureReason,
		StartedAt:     d.StartedAt,
		FinishedAt:    d.FinishedAt,
	}
	if len(d.RejectionsByCode) > 0 {
		r.RejectionsByCode = make(map[shared.RejectionCode]int, len(d.RejectionsByCode))
		for code, n := range d.RejectionsByCode {
			r.RejectionsByCode[shared.RejectionCode(code)] = n
		}
	}
	for _, a := range d.Accounts {
		s, err := a.toSnapshot()
		if err != nil {
			return nil, err
		}
		r.Accounts = append(r.Accounts, s)
	}
	return r, nil
}
