package transaction

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInconsistentAmount is returned when the presence of an amount contradicts the event type
var ErrInconsistentAmount = errors.New("amount presence does not match transaction type")

// Event is a single parsed input record, as produced by every record source
type Event struct {
	Type   Type             `json:"type"`
	Client uint16           `json:"client"`
	Tx     uint32           `json:"tx"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// FormatValid reports whether the amount is present exactly when the type requires one
func (e Event) FormatValid() bool {
	return (e.Amount != nil) == e.Type.RequiresAmount()
}

// Instruction is a validated event: either a Funding or a Reference
type Instruction interface {
	Kind() Type
	ClientID() uint16
	TxID() uint32
}

// Funding is an amount-bearing deposit or withdrawal
type Funding struct {
	Type   Type
	Client uint16
	Tx     uint32
	Amount decimal.Decimal
}

func (f Funding) Kind() Type       { return f.Type }
func (f Funding) ClientID() uint16 { return f.Client }
func (f Funding) TxID() uint32     { return f.Tx }

// Reference is a dispute, resolve or chargeback pointing at a stored Funding
type Reference struct {
	Type   Type
	Client uint16
	Tx     uint32
}

func (r Reference) Kind() Type       { return r.Type }
func (r Reference) ClientID() uint16 { return r.Client }
func (r Reference) TxID() uint32     { return r.Tx }

// Validate checks the type, the amount presence and the amount range
func (e Event) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, string(e.Type))
	}
	if !e.FormatValid() {
		return ErrInconsistentAmount
	}
	if e.Amount != nil {
		return CheckAmount(*e.Amount)
	}
	return nil
}

// Classify turns the event into its Funding or Reference variant.
// Events failing Validate are rejected with its error.
func (e Event) Classify() (Instruction, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.Type.IsNewTransaction() {
		return Funding{Type: e.Type, Client: e.Client, Tx: e.Tx, Amount: *e.Amount}, nil
	}
	return Reference{Type: e.Type, Client: e.Client, Tx: e.Tx}, nil
}

// NewDeposit builds a deposit event
func NewDeposit(client uint16, tx uint32, amount decimal.Decimal) Event {
	return Event{Type: TypeDeposit, Client: client, Tx: tx, Amount: &amount}
}

// NewWithdrawal builds a withdrawal event
func NewWithdrawal(client uint16, tx uint32, amount decimal.Decimal) Event {
	return Event{Type: TypeWithdrawal, Client: client, Tx: tx, Amount: &amount}
}

// NewReference builds a dispute, resolve or chargeback event
func NewReference(t Type, client uint16, tx uint32) Event {
	return Event{Type: t, Client: client, Tx: tx}
}
