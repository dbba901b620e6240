package transaction

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountScale bounds the exponent of an amount in both directions
	MaxAmountScale = 28
	// MaxAmountDigits bounds the digits of an amount's coefficient
	MaxAmountDigits = 38
)

var ErrAmountOutOfRange = errors.New("amount is out of range")

// CheckAmount rejects amounts whose scale or size would make balance
// arithmetic grow without bound.
func CheckAmount(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < -MaxAmountScale || exp > MaxAmountScale || d.NumDigits() > MaxAmountDigits {
		// d.String() would expand the exponent, so report its parts only
		return fmt.Errorf("%w: %d digits, exponent %d", ErrAmountOutOfRange, d.NumDigits(), exp)
	}
	return nil
}

// ParseAmount reads a decimal amount and applies CheckAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}
