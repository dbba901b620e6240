package transaction

import "github.com/shopspring/decimal"

// DisputeState is the position of a stored record in its dispute lifecycle.
//
//	None -> Disputed -> Resolved | ChargedBack
//
// Resolved and ChargedBack are terminal.
type DisputeState int

const (
	DisputeNone DisputeState = iota
	Disputed
	Resolved
	ChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case DisputeNone:
		return "none"
	case Disputed:
		return "disputed"
	case Resolved:
		return "resolved"
	case ChargedBack:
		return "chargeback"
	}
	return "unknown"
}

// Record is a stored deposit or withdrawal. Only its dispute state ever changes.
type Record struct {
	funding Funding
	state   DisputeState
}

// NewRecord stores a funding instruction with no dispute opened
func NewRecord(f Funding) *Record {
	return &Record{funding: f, state: DisputeNone}
}

func (r *Record) Type() Type              { return r.funding.Type }
func (r *Record) Client() uint16          { return r.funding.Client }
func (r *Record) Tx() uint32              { return r.funding.Tx }
func (r *Record) Amount() decimal.Decimal { return r.funding.Amount }
func (r *Record) State() DisputeState     { return r.state }

// DisputeEligible reports whether the record may take part in a dispute at all
func (r *Record) DisputeEligible() bool {
	return r.funding.Type == TypeDeposit || r.funding.Type == TypeWithdrawal
}

// BeginDispute moves None -> Disputed
func (r *Record) BeginDispute() bool {
	return r.transition(DisputeNone, Disputed)
}

// ResolveDispute moves Disputed -> Resolved
func (r *Record) ResolveDispute() bool {
	return r.transition(Disputed, Resolved)
}

// ChargebackDispute moves Disputed -> ChargedBack
func (r *Record) ChargebackDispute() bool {
	return r.transition(Disputed, ChargedBack)
}

func (r *Record) transition(from, to DisputeState) bool {
	if !r.DisputeEligible() || r.state != from {
		return false
	}
	r.state = to
	return true
}
