package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrWithdrawIsNotConstructed = errors.New("Withdraw must be created via NewWithdraw constructor")
	ErrDestinationIsRequired    = errs.NewValueIsRequiredError("destination account")
)

// WithdrawStatus tracks a payout from the driver's connected account.
type WithdrawStatus int

const (
	UnknownWithdrawStatus WithdrawStatus = iota
	WithdrawPending
	WithdrawPaid
	WithdrawFailed
)

func getWithdrawStatusStrings() map[WithdrawStatus]string {
	return map[WithdrawStatus]string{
		WithdrawPending: "PENDING",
		WithdrawPaid:    "PAID",
		WithdrawFailed:  "FAILED",
	}
}

func (s WithdrawStatus) Validate() error {
	if _, ok := getWithdrawStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("withdraw status", fmt.Errorf("unknown value %d", int(s)))
	}
	return nil
}

func (s WithdrawStatus) String() string {
	if str, ok := getWithdrawStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ParseWithdrawStatus maps a processor payout status onto ours. Anything
// the processor has not reported as paid or failed stays pending.
func ParseWithdrawStatus(processorStatus string) WithdrawStatus {
	switch strings.ToLower(strings.TrimSpace(processorStatus)) {
	case "paid":
		return WithdrawPaid
	case "failed", "canceled":
		return WithdrawFailed
	default:
		return WithdrawPending
	}
}

type Withdraw struct {
	id          kernel.UUID
	driverID    kernel.UUID
	amount      kernel.Money
	destination string
	payoutRef   string
	status      WithdrawStatus
	createdAt   time.Time

	kernel.EventRecorder
	guard guard.ConstructorGuard
}

func NewWithdraw(
	id kernel.UUID,
	driverID kernel.UUID,
	amount kernel.Money,
	destination string,
	payoutRef string,
	status WithdrawStatus,
) (*Withdraw, error) {
	w := &Withdraw{
		payoutRef: strings.TrimSpace(payoutRef),
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		driverID.Validate(),
		status.Validate(),
		w.setAmount(amount),
		w.setDestination(destination),
	); err != nil {
		return nil, err
	}
	w.id = id
	w.driverID = driverID
	w.status = status

	w.Record(WithdrawRequested{
		WithdrawID: w.id,
		DriverID:   w.driverID,
		Amount:     w.amount,
		Status:     w.status,
		At:         w.createdAt,
	})
	return w, nil
}

func RestoreWithdraw(
	id kernel.UUID,
	driverID kernel.UUID,
	amount kernel.Money,
	destination string,
	payoutRef string,
	status WithdrawStatus,
	createdAt time.Time,
) (*Withdraw, error) {
	w, err := NewWithdraw(id, driverID, amount, destination, payoutRef, status)
	if err != nil {
		return nil, err
	}
	w.ClearDomainEvents()
	w.createdAt = createdAt
	return w, nil
}

func (w *Withdraw) Validate() error {
	if w == nil {
		return ErrWithdrawIsNotConstructed
	}
	return w.guard.Validate(ErrWithdrawIsNotConstructed)
}

func (w *Withdraw) ID() kernel.UUID        { return w.id }
func (w *Withdraw) DriverID() kernel.UUID  { return w.driverID }
func (w *Withdraw) Amount() kernel.Money   { return w.amount }
func (w *Withdraw) Destination() string    { return w.destination }
func (w *Withdraw) PayoutRef() string      { return w.payoutRef }
func (w *Withdraw) Status() WithdrawStatus { return w.status }
func (w *Withdraw) CreatedAt() time.Time   { return w.createdAt }

func (w *Withdraw) setAmount(amount kernel.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	w.amount = amount
	return nil
}

func (w *Withdraw) setDestination(destination string) error {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return ErrDestinationIsRequired
	}
	w.destination = destination
	return nil
}
