package account

import (
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimal places balances are rendered with
const DefaultPrecision int32 = 4

// Account is the balance record of a single client.
// The total is never stored, it is always derived from available and held.
type Account struct {
	client    uint16
	available decimal.Decimal
	held      decimal.Decimal
	locked    bool
}

// NewAccount creates an unlocked account with zero balances
func NewAccount(client uint16) *Account {
	return &Account{
		client:    client,
		available: decimal.Zero,
		held:      decimal.Zero,
	}
}

func (a *Account) Client() uint16 {
	return a.client
}

func (a *Account) Available() decimal.Decimal {
	return a.available
}

func (a *Account) Held() decimal.Decimal {
	return a.held
}

// Total returns available + held
func (a *Account) Total() decimal.Decimal {
	return a.available.Add(a.held)
}

func (a *Account) Locked() bool {
	return a.locked
}

// Deposit adds the amount to the available funds
func (a *Account) Deposit(amount decimal.Decimal) {
	a.available = a.available.Add(amount)
}

// Withdraw removes the amount from the available funds if they cover it.
// The account is left untouched when it returns false.
func (a *Account) Withdraw(amount decimal.Decimal) bool {
	if a.available.LessThan(amount) {
		return false
	}
	a.available = a.available.Sub(amount)
	return true
}

// Hold moves the amount from available to held. There is no bound check:
// disputing funds that were already withdrawn drives available negative.
func (a *Account) Hold(amount decimal.Decimal) {
	a.available = a.available.Sub(amount)
	a.held = a.held.Add(amount)
}

// Release moves the amount from held back to available
func (a *Account) Release(amount decimal.Decimal) {
	a.held = a.held.Sub(amount)
	a.available = a.available.Add(amount)
}

// Chargeback forfeits the held amount and locks the account for good
func (a *Account) Chargeback(amount decimal.Decimal) {
	a.held = a.held.Sub(amount)
	a.locked = true
}

// Clone returns an independent copy of the account
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// Snapshot renders the account with every amount rounded half away from zero
// to the given number of decimal places.
func (a *Account) Snapshot(precision int32) Snapshot {
	return Snapshot{
		Client:    a.client,
		Available: a.available.Round(precision),
		Held:      a.held.Round(precision),
		Total:     a.Total().Round(precision),
		Locked:    a.locked,
	}
}
