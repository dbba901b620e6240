package transaction

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_FormatValid(t *testing.T) {
	amount := decimal.RequireFromString("1.0")

	testCases := []struct {
		name     string
		event    Event
		expected bool
	}{
		{"DepositWithAmount", NewDeposit(1, 1, amount), true},
		{"WithdrawalWithAmount", NewWithdrawal(1, 1, amount), true},
		{"DepositWithoutAmount", Event{Type: TypeDeposit, Client: 1, Tx: 1}, false},
		{"WithdrawalWithoutAmount", Event{Type: TypeWithdrawal, Client: 1, Tx: 1}, false},
		{"DisputeWithoutAmount", NewReference(TypeDispute, 1, 1), true},
		{"ResolveWithoutAmount", NewReference(TypeResolve, 1, 1), true},
		{"ChargebackWithoutAmount", NewReference(TypeChargeback, 1, 1), true},
		{"DisputeWithAmount", Event{Type: TypeDispute, Client: 1, Tx: 1, Amount: &amount}, false},
		{"ResolveWithAmount", Event{Type: TypeResolve, Client: 1, Tx: 1, Amount: &amount}, false},
		{"ChargebackWithAmount", Event{Type: TypeChargeback, Client: 1, Tx: 1, Amount: &amount}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.event.FormatValid())
		})
	}
}

func TestEvent_Classify(t *testing.T) {
	t.Run("Funding", func(t *testing.T) {
		instr, err := NewDeposit(3, 11, decimal.RequireFromString("2.5")).Classify()
		require.NoError(t, err)

		funding, ok := instr.(Funding)
		require.True(t, ok)
		assert.Equal(t, TypeDeposit, funding.Kind())
		assert.Equal(t, uint16(3), funding.ClientID())
		assert.Equal(t, uint32(11), funding.TxID())
		assert.Equal(t, "2.5", funding.Amount.String())
	})

	t.Run("Reference", func(t *testing.T) {
		instr, err := NewReference(TypeResolve, 4, 12).Classify()
		require.NoError(t, err)

		ref, ok := instr.(Reference)
		require.True(t, ok)
		assert.Equal(t, TypeResolve, ref.Kind())
		assert.Equal(t, uint16(4), ref.ClientID())
		assert.Equal(t, uint32(12), ref.TxID())
	})

	t.Run("Inconsistent", func(t *testing.T) {
		amount := decimal.NewFromInt(1)
		_, err := Event{Type: TypeChargeback, Client: 1, Tx: 1, Amount: &amount}.Classify()
		assert.ErrorIs(t, err, ErrInconsistentAmount)
	})
}

func TestEvent_Validate(t *testing.T) {
	tiny := decimal.New(1, -400000000)

	testCases := []struct {
		name  string
		event Event
		errIs error
	}{
		{"Deposit", NewDeposit(1, 1, decimal.NewFromInt(2)), nil},
		{"Dispute", NewReference(TypeDispute, 1, 1), nil},
		{"ZeroType", Event{Client: 1, Tx: 1}, ErrUnknownType},
		{"UnknownType", Event{Type: "refund", Client: 1, Tx: 1}, ErrUnknownType},
		{"UnknownTypeWithAmount", Event{Type: "refund", Client: 1, Tx: 1, Amount: &tiny}, ErrUnknownType},
		{"DepositWithoutAmount", Event{Type: TypeDeposit, Client: 1, Tx: 1}, ErrInconsistentAmount},
		{"AmountOutOfRange", Event{Type: TypeWithdrawal, Client: 1, Tx: 1, Amount: &tiny}, ErrAmountOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.event.Validate()
			if tc.errIs == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.errIs)

			_, classifyErr := tc.event.Classify()
			assert.ErrorIs(t, classifyErr, tc.errIs)
		})
	}
}

func TestMalformedError(t *testing.T) {
	err := &MalformedError{Row: 3, Err: ErrUnknownType}

	assert.Equal(t, "deserialize of row 3 failed: unknown transaction type", err.Error())
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.True(t, IsMalformed(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsMalformed(ErrUnknownType))
}
