package engine

import (
	"errors"
	"fmt"

	"github.com/payments-engine/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Every rejection implements errors.Is so that a zero-value target matches any
// instance of the same kind, and a populated target matches only identical fields.

// ErrInvalidTransaction indicates the amount presence contradicts the event type
type ErrInvalidTransaction struct {
	Tx uint32
}

func (e ErrInvalidTransaction) Error() string {
	return fmt.Sprintf("transaction '%d' formatted incorrectly", e.Tx)
}

func (e ErrInvalidTransaction) Code() shared.RejectionCode { return shared.RejectionInvalidTransaction }

func (e ErrInvalidTransaction) Is(target error) bool {
	t, ok := target.(ErrInvalidTransaction)
	return ok && (t == ErrInvalidTransaction{} || t == e)
}

// ErrDuplicateTransaction indicates a deposit or withdrawal reused a stored tx id
type ErrDuplicateTransaction struct {
	Tx uint32
}

func (e ErrDuplicateTransaction) Error() string {
	return fmt.Sprintf("transaction '%d' already exists in the transaction engine", e.Tx)
}

func (e ErrDuplicateTransaction) Code() shared.RejectionCode {
	return shared.RejectionDuplicateTransaction
}

func (e ErrDuplicateTransaction) Is(target error) bool {
	t, ok := target.(ErrDuplicateTransaction)
	return ok && (t == ErrDuplicateTransaction{} || t == e)
}

// ErrAccountLocked indicates the client's account was frozen by a chargeback
type ErrAccountLocked struct {
	Client uint16
}

func (e ErrAccountLocked) Error() string {
	return fmt.Sprintf("account '%d' is locked", e.Client)
}

func (e ErrAccountLocked) Code() shared.RejectionCode { return shared.RejectionAccountLocked }

func (e ErrAccountLocked) Is(target error) bool {
	t, ok := target.(ErrAccountLocked)
	return ok && (t == ErrAccountLocked{} || t == e)
}

// ErrNonPositiveAmount indicates a deposit or withdrawal of zero or less
type ErrNonPositiveAmount struct {
	Client uint16
	Tx     uint32
	Amount decimal.Decimal
}

func (e ErrNonPositiveAmount) Error() string {
	return fmt.Sprintf("client '%d' tried to deposit/withdraw a non-positive amount '%s' in transaction '%d'",
		e.Client, e.Amount.String(), e.Tx)
}

func (e ErrNonPositiveAmount) Code() shared.RejectionCode { return shared.RejectionNonPositiveAmount }

func (e ErrNonPositiveAmount) Is(target error) bool {
	t, ok := target.(ErrNonPositiveAmount)
	if !ok {
		return false
	}
	if t.Client == 0 && t.Tx == 0 && t.Amount.IsZero() {
		return true
	}
	return t.Client == e.Client && t.Tx == e.Tx && t.Amount.Equal(e.Amount)
}

// ErrInsufficientFunds indicates a withdrawal larger than the available balance
type ErrInsufficientFunds struct {
	Client uint16
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("client '%d' has insufficient funds", e.Client)
}

func (e ErrInsufficientFunds) Code() shared.RejectionCode { return shared.RejectionInsufficientFunds }

func (e ErrInsufficientFunds) Is(target error) bool {
	t, ok := target.(ErrInsufficientFunds)
	return ok && (t == ErrInsufficientFunds{} || t == e)
}

// ErrNonExistingReference indicates a dispute, resolve or chargeback naming an unknown tx
type ErrNonExistingReference struct {
	Client uint16
	Tx     uint32
}

func (e ErrNonExistingReference) Error() string {
	return fmt.Sprintf("client '%d' referred to transaction '%d' which doesn't exist", e.Client, e.Tx)
}

func (e ErrNonExistingReference) Code() shared.RejectionCode {
	return shared.RejectionNonExistingReference
}

func (e ErrNonExistingReference) Is(target error) bool {
	t, ok := target.(ErrNonExistingReference)
	return ok && (t == ErrNonExistingReference{} || t == e)
}

// ErrClientMismatch indicates a reference to a tx owned by another client
type ErrClientMismatch struct {
	Client      uint16
	Tx          uint32
	OwnerClient uint16
}

func (e ErrClientMismatch) Error() string {
	return fmt.Sprintf("client '%d' referred to transaction '%d' which belongs to client '%d'",
		e.Client, e.Tx, e.OwnerClient)
}

func (e ErrClientMismatch) Code() shared.RejectionCode { return shared.RejectionClientMismatch }

func (e ErrClientMismatch) Is(target error) bool {
	t, ok := target.(ErrClientMismatch)
	return ok && (t == ErrClientMismatch{} || t == e)
}

// ErrInvalidDispute indicates the referenced tx is not in a state that can be disputed
type ErrInvalidDispute struct {
	Client uint16
	Tx     uint32
}

func (e ErrInvalidDispute) Error() string {
	return fmt.Sprintf("client '%d' can't dispute transaction '%d'", e.Client, e.Tx)
}

func (e ErrInvalidDispute) Code() shared.RejectionCode { return shared.RejectionInvalidDispute }

func (e ErrInvalidDispute) Is(target error) bool {
	t, ok := target.(ErrInvalidDispute)
	return ok && (t == ErrInvalidDispute{} || t == e)
}

type ErrInvalidResolve struct {
	Client uint16
	Tx     uint32
}

func (e ErrInvalidResolve) Error() string {
	return fmt.Sprintf("client '%d' can't resolve transaction '%d'", e.Client, e.Tx)
}

func (e ErrInvalidResolve) Code() shared.RejectionCode { return shared.RejectionInvalidResolve }

func (e ErrInvalidResolve) Is(target error) bool {
	t, ok := target.(ErrInvalidResolve)
	return ok && (t == ErrInvalidResolve{} || t == e)
}

type ErrInvalidChargeback struct {
	Client uint16
	Tx     uint32
}

func (e ErrInvalidChargeback) Error() string {
	return fmt.Sprintf("client '%d' can't chargeback transaction '%d'", e.Client, e.Tx)
}

func (e ErrInvalidChargeback) Code() shared.RejectionCode { return shared.RejectionInvalidChargeback }

func (e ErrInvalidChargeback) Is(target error) bool {
	t, ok := target.(ErrInvalidChargeback)
	return ok && (t == ErrInvalidChargeback{} || t == e)
}

// CodeOf returns the rejection code carried by err, or RejectionUnknown
func CodeOf(err error) shared.RejectionCode {
	var coded shared.Coded
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return shared.RejectionUnknown
}
