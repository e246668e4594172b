package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Money is an amount in minor currency units (cents).
// Processor calls take the same unit, so no conversion happens at the boundary.
type Money struct {
	cents int64
}

// NewMoney rejects negative amounts.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", cents, 0, "unbounded")
	}
	return Money{cents: cents}, nil
}

// MoneyFromUnits converts whole currency units, e.g. 40 to 4000 cents.
func MoneyFromUnits(units int64) (Money, error) {
	return NewMoney(units * 100)
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) IsPositive() bool {
	return m.cents > 0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub fails instead of producing a negative amount.
func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.cents - other.cents)
}

func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String renders the amount as units with two decimals, e.g. "40.00".
func (m Money) String() string {
	sign := ""
	cents := m.cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
