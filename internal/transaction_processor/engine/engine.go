// Package engine applies transaction events to client accounts.
//
// An Engine owns every account and every stored deposit/withdrawal of a single
// run. It is not safe for concurrent use; callers that share one must serialize
// access themselves.
package engine

import (
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
)

type Engine struct {
	accounts map[uint16]*account.Account
	// tx ids are global, not per client
	transactions map[uint32]*transaction.Record
}

func New() *Engine {
	return &Engine{
		accounts:     make(map[uint16]*account.Account),
		transactions: make(map[uint32]*transaction.Record),
	}
}

// Apply validates the event and mutates the engine state, or returns one of the
// rejection errors in this package and leaves the state untouched.
func (e *Engine) Apply(event transaction.Event) error {
	acc, ok := e.accounts[event.Client]
	if !ok {
		acc = account.NewAccount(event.Client)
		e.accounts[event.Client] = acc
	}

	// locked wins over every other rejection, including malformed events
	if acc.Locked() {
		return ErrAccountLocked{Client: event.Client}
	}

	instr, err := event.Classify()
	if err != nil {
		return ErrInvalidTransaction{Tx: event.Tx}
	}

	switch in := instr.(type) {
	case transaction.Funding:
		return e.applyFunding(acc, in)
	case transaction.Reference:
		return e.applyReference(acc, in)
	}
	return ErrInvalidTransaction{Tx: event.Tx}
}

func (e *Engine) applyFunding(acc *account.Account, f transaction.Funding) error {
	if _, exists := e.transactions[f.Tx]; exists {
		return ErrDuplicateTransaction{Tx: f.Tx}
	}
	if !f.Amount.IsPositive() {
		return ErrNonPositiveAmount{Client: f.Client, Tx: f.Tx, Amount: f.Amount}
	}

	switch f.Type {
	case transaction.TypeDeposit:
		acc.Deposit(f.Amount)
	case transaction.TypeWithdrawal:
		if !acc.Withdraw(f.Amount) {
			return ErrInsufficientFunds{Client: f.Client}
		}
	}

	e.transactions[f.Tx] = transaction.NewRecord(f)
	return nil
}

func (e *Engine) applyReference(acc *account.Account, ref transaction.Reference) error {
	record, ok := e.transactions[ref.Tx]
	if !ok {
		return ErrNonExistingReference{Client: ref.Client, Tx: ref.Tx}
	}
	if record.Client() != ref.Client {
		return ErrClientMismatch{Client: ref.Client, Tx: ref.Tx, OwnerClient: record.Client()}
	}

	switch ref.Type {
	case transaction.TypeDispute:
		if !record.BeginDispute() {
			return ErrInvalidDispute{Client: ref.Client, Tx: ref.Tx}
		}
		acc.Hold(record.Amount())
	case transaction.TypeResolve:
		if !record.ResolveDispute() {
			return ErrInvalidResolve{Client: ref.Client, Tx: ref.Tx}
		}
		acc.Release(record.Amount())
	case transaction.TypeChargeback:
		if !record.ChargebackDispute() {
			return ErrInvalidChargeback{Client: ref.Client, Tx: ref.Tx}
		}
		acc.Chargeback(record.Amount())
	default:
		return ErrInvalidTransaction{Tx: ref.Tx}
	}
	return nil
}

// Accounts returns copies of every account. Order is unspecified.
func (e *Engine) Accounts() []*account.Account {
	out := make([]*account.Account, 0, len(e.accounts))
	for _, acc := range e.accounts {
		out = append(out, acc.Clone())
	}
	return out
}

// Account returns a copy of the client's account, if the client was ever seen
func (e *Engine) Account(client uint16) (*account.Account, bool) {
	acc, ok := e.accounts[client]
	if !ok {
		return nil, false
	}
	return acc.Clone(), true
}

// Snapshot renders every account at the given precision, ordered by client
func (e *Engine) Snapshot(precision int32) []account.Snapshot {
	snapshots := account.Snapshots(e.Accounts(), precision)
	account.SortByClient(snapshots)
	return snapshots
}

func (e *Engine) TransactionCount() int {
	return len(e.transactions)
}
