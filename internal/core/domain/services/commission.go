package services

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"
)

// MaxBasisPoints is 100%.
const MaxBasisPoints = 10_000

// ErrNothingToTransfer is returned when the commission swallows the whole amount.
var ErrNothingToTransfer = errs.NewValueIsInvalidErrorWithCause(
	"transfer amount", errors.New("nothing is left for the driver after commission"))

// CommissionPolicy decides how much of a customer deduction the platform keeps.
//
// Implementations must return a commission between zero and the amount itself.
type CommissionPolicy interface {
	Commission(amount kernel.Money) kernel.Money
}

// NoCommission forwards the full amount to the driver.
type NoCommission struct{}

func (NoCommission) Commission(kernel.Money) kernel.Money {
	return kernel.Money{}
}

// PercentageCommission keeps a fixed share expressed in basis points
// (100 bps = 1%). Fractions of a cent are rounded down in the driver's favour.
type PercentageCommission struct {
	bps int64
}

// NewPercentageCommission validates that bps lies within [0, MaxBasisPoints].
func NewPercentageCommission(bps int64) (PercentageCommission, error) {
	if bps < 0 || bps > MaxBasisPoints {
		return PercentageCommission{}, errs.NewValueIsOutOfRangeError("commission bps", bps, 0, MaxBasisPoints)
	}
	return PercentageCommission{bps: bps}, nil
}

func (p PercentageCommission) Commission(amount kernel.Money) kernel.Money {
	cents := amount.Cents() * p.bps / MaxBasisPoints
	m, _ := kernel.NewMoney(cents)
	return m
}

// NewCommissionPolicy returns NoCommission for zero bps and a
// PercentageCommission otherwise.
func NewCommissionPolicy(bps int64) (CommissionPolicy, error) {
	if bps == 0 {
		return NoCommission{}, nil
	}
	return NewPercentageCommission(bps)
}

// TransferPlanner computes what a deduction pays out to the driver.
//
// Business rules:
//   - only completed, untransferred customer deductions fund a transfer
//   - the driver receives the deducted amount minus the platform commission
//   - a transfer is never zero
type TransferPlanner struct {
	policy CommissionPolicy
}

func NewTransferPlanner(policy CommissionPolicy) TransferPlanner {
	if policy == nil {
		policy = NoCommission{}
	}
	return TransferPlanner{policy: policy}
}

// Plan returns the driver share of the whole source amount.
func (p TransferPlanner) Plan(source *payment.Entry) (kernel.Money, error) {
	return p.PlanAmount(source, nil)
}

// PlanAmount returns the driver share of requested, which must not exceed
// the source amount. A nil requested amount means the whole source.
func (p TransferPlanner) PlanAmount(source *payment.Entry, requested *kernel.Money) (kernel.Money, error) {
	if err := source.Validate(); err != nil {
		return kernel.Money{}, err
	}
	if !source.CanBeTransferred() {
		if source.IsTransferred() {
			return kernel.Money{}, errs.NewIllegalTransitionError("transfer payment", "payment is already transferred")
		}
		return kernel.Money{}, payment.ErrEntryNotTransferable
	}

	amount := source.Amount()
	if requested != nil {
		if !requested.IsPositive() || requested.Cents() > amount.Cents() {
			return kernel.Money{}, errs.NewValueIsOutOfRangeError(
				"transfer amount", requested.Cents(), 1, amount.Cents())
		}
		amount = *requested
	}

	commission := p.policy.Commission(amount)
	share, err := amount.Sub(commission)
	if err != nil {
		return kernel.Money{}, fmt.Errorf("commission exceeds amount: %w", err)
	}
	if !share.IsPositive() {
		return kernel.Money{}, ErrNothingToTransfer
	}
	return share, nil
}
