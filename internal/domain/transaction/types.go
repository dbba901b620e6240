// Package transaction models the events fed into the payments engine and the
// stored deposit/withdrawal records whose dispute lifecycle they drive.
package transaction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned when a type name is not one of the five known types
var ErrUnknownType = errors.New("unknown transaction type")

// Type is the kind of an incoming event
type Type string

const (
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
	TypeDispute    Type = "dispute"
	TypeResolve    Type = "resolve"
	TypeChargeback Type = "chargeback"
)

// ParseType reads a type name, ignoring case and surrounding whitespace
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Valid reports whether t is one of the five known types. The zero Type is not.
func (t Type) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeDispute, TypeResolve, TypeChargeback:
		return true
	}
	return false
}

// RequiresAmount reports whether events of this type must carry an amount.
// The other types must not carry one.
func (t Type) RequiresAmount() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// IsNewTransaction reports whether the event creates a stored record
// rather than referring to an existing one.
func (t Type) IsNewTransaction() bool {
	return t.RequiresAmount()
}

func (t Type) String() string {
	return string(t)
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the same rules as ParseType
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
