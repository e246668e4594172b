package payment

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// TransactionType classifies a ledger entry.
type TransactionType int

const (
	UnknownTransaction TransactionType = iota
	CustomerDeduction
	DriverTransfer
	DriverWithdraw
)

func getTransactionTypeStrings() map[TransactionType]string {
	return map[TransactionType]string{
		CustomerDeduction: "CUSTOMER_DEDUCTION",
		DriverTransfer:    "DRIVER_TRANSFER",
		DriverWithdraw:    "DRIVER_WITHDRAW",
	}
}

func (t TransactionType) Validate() error {
	if _, ok := getTransactionTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transaction type", fmt.Errorf("unknown value %d", int(t)))
	}
	return nil
}

func (t TransactionType) String() string {
	if s, ok := getTransactionTypeStrings()[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Status is the processor outcome recorded on an entry.
type Status int

const (
	UnknownStatus Status = iota
	Pending
	Completed
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Pending:   "PENDING",
		Completed: "COMPLETED",
		Failed:    "FAILED",
	}
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("unknown value %d", int(s)))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Resolve moves a pending entry to its final outcome.
func (s Status) Resolve(outcome Status) (Status, error) {
	if s != Pending {
		return s, errs.NewIllegalTransitionError("resolve payment", fmt.Sprintf("payment is %s", s))
	}
	if outcome != Completed && outcome != Failed {
		return s, errs.NewValueIsInvalidErrorWithCause("payment outcome", fmt.Errorf("%s is not final", outcome))
	}
	return outcome, nil
}
