package payment

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")
	ErrAmountMustBePositive  = errs.NewValueIsInvalidErrorWithCause("amount", errors.New("amount must be positive"))
	ErrEntryNotTransferable  = errs.NewIllegalTransitionError(
		"transfer payment", "only completed customer deductions can be transferred")
)

// Refs are the processor references stored on an entry. Empty means unknown.
type Refs struct {
	CardRef          string
	PaymentIntentRef string
	ChargeRef        string
	TransferRef      string
	IdempotencyKey   string
}

// Entry is an append-only ledger record. The only mutations allowed after
// creation are resolving a pending outcome and flipping the transferred flag.
type Entry struct {
	id              kernel.UUID
	userID          kernel.UUID
	jobID           kernel.UUID
	sourceEntryID   *kernel.UUID
	amount          kernel.Money
	transactionType TransactionType
	isTip           bool
	status          Status
	transferred     bool
	refs            Refs
	createdAt       time.Time

	kernel.EventRecorder
	guard guard.ConstructorGuard
}

func NewEntry(
	id kernel.UUID,
	userID kernel.UUID,
	jobID kernel.UUID,
	transactionType TransactionType,
	amount kernel.Money,
	status Status,
	isTip bool,
	refs Refs,
) (*Entry, error) {
	e := &Entry{
		isTip:     isTip,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setID(id),
		e.setUserID(userID),
		jobID.Validate(),
		transactionType.Validate(),
		status.Validate(),
		e.setAmount(amount),
	); err != nil {
		return nil, err
	}
	e.jobID = jobID
	e.transactionType = transactionType
	e.status = status
	e.refs = trimRefs(refs)

	return e, nil
}

// NewDeduction creates the ledger entry for a charge against the customer.
func NewDeduction(
	customerID, jobID kernel.UUID, amount kernel.Money, status Status, isTip bool, refs Refs,
) (*Entry, error) {
	e, err := NewEntry(kernel.NewUUID(), customerID, jobID, CustomerDeduction, amount, status, isTip, refs)
	if err != nil {
		return nil, err
	}
	if status == Completed {
		e.recordDeducted()
	}
	return e, nil
}

// NewTransfer creates the ledger entry for a transfer funded by source.
func NewTransfer(driverID kernel.UUID, source *Entry, amount kernel.Money, transferRef string) (*Entry, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if source.transactionType != CustomerDeduction {
		return nil, ErrEntryNotTransferable
	}
	e, err := NewEntry(kernel.NewUUID(), driverID, source.jobID, DriverTransfer, amount, Completed, source.isTip,
		Refs{PaymentIntentRef: source.refs.PaymentIntentRef, TransferRef: transferRef})
	if err != nil {
		return nil, err
	}
	sourceID := source.id
	e.sourceEntryID = &sourceID
	e.transferred = true
	e.Record(PaymentTransferred{
		EntryID:     e.id,
		SourceID:    source.id,
		JobID:       e.jobID,
		DriverID:    driverID,
		Amount:      amount,
		IsTip:       e.isTip,
		TransferRef: transferRef,
		At:          e.createdAt,
	})
	return e, nil
}

// EntrySnapshot carries the persisted state of an entry.
type EntrySnapshot struct {
	ID              kernel.UUID
	UserID          kernel.UUID
	JobID           kernel.UUID
	SourceEntryID   *kernel.UUID
	Amount          kernel.Money
	TransactionType TransactionType
	IsTip           bool
	Status          Status
	Transferred     bool
	Refs            Refs
	CreatedAt       time.Time
}

func RestoreEntry(s EntrySnapshot) (*Entry, error) {
	e, err := NewEntry(s.ID, s.UserID, s.JobID, s.TransactionType, s.Amount, s.Status, s.IsTip, s.Refs)
	if err != nil {
		return nil, err
	}
	e.sourceEntryID = s.SourceEntryID
	e.transferred = s.Transferred
	e.createdAt = s.CreatedAt
	return e, nil
}

func (e *Entry) Snapshot() EntrySnapshot {
	var source *kernel.UUID
	if e.sourceEntryID != nil {
		id := *e.sourceEntryID
		source = &id
	}
	return EntrySnapshot{
		ID:              e.id,
		UserID:          e.userID,
		JobID:           e.jobID,
		SourceEntryID:   source,
		Amount:          e.amount,
		TransactionType: e.transactionType,
		IsTip:           e.isTip,
		Status:          e.status,
		Transferred:     e.transferred,
		Refs:            e.refs,
		CreatedAt:       e.createdAt,
	}
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) ID() kernel.UUID                  { return e.id }
func (e *Entry) UserID() kernel.UUID              { return e.userID }
func (e *Entry) JobID() kernel.UUID               { return e.jobID }
func (e *Entry) SourceEntryID() *kernel.UUID      { return e.sourceEntryID }
func (e *Entry) Amount() kernel.Money             { return e.amount }
func (e *Entry) TransactionType() TransactionType { return e.transactionType }
func (e *Entry) IsTip() bool                      { return e.isTip }
func (e *Entry) Status() Status                   { return e.status }
func (e *Entry) IsTransferred() bool              { return e.transferred }
func (e *Entry) Refs() Refs                       { return e.refs }
func (e *Entry) CreatedAt() time.Time             { return e.createdAt }

// IsPrimaryDeduction reports whether the entry is the job's own deduction, not a tip.
func (e *Entry) IsPrimaryDeduction() bool {
	return e.transactionType == CustomerDeduction && !e.isTip
}

// CanBeTransferred reports whether a transfer may be funded by this entry.
func (e *Entry) CanBeTransferred() bool {
	return e.transactionType == CustomerDeduction && e.status == Completed && !e.transferred
}

// Resolve finalizes a pending entry once the processor outcome is known.
func (e *Entry) Resolve(outcome Status, paymentIntentRef, chargeRef string) error {
	status, err := e.status.Resolve(outcome)
	if err != nil {
		return err
	}
	e.status = status
	if ref := strings.TrimSpace(paymentIntentRef); ref != "" && e.refs.PaymentIntentRef == "" {
		e.refs.PaymentIntentRef = ref
	}
	if ref := strings.TrimSpace(chargeRef); ref != "" && e.refs.ChargeRef == "" {
		e.refs.ChargeRef = ref
	}
	if status == Completed && e.transactionType == CustomerDeduction {
		e.recordDeducted()
	}
	return nil
}

// MarkTransferred claims the entry for a transfer.
func (e *Entry) MarkTransferred() error {
	if !e.CanBeTransferred() {
		if e.transferred {
			return errs.NewIllegalTransitionError("transfer payment", "payment is already transferred")
		}
		return ErrEntryNotTransferable
	}
	e.transferred = true
	return nil
}

// ReleaseTransfer undoes a claim after the processor refused the transfer.
func (e *Entry) ReleaseTransfer() {
	e.transferred = false
}

func (e *Entry) recordDeducted() {
	e.Record(PaymentDeducted{
		EntryID:          e.id,
		JobID:            e.jobID,
		CustomerID:       e.userID,
		Amount:           e.amount,
		IsTip:            e.isTip,
		PaymentIntentRef: e.refs.PaymentIntentRef,
		At:               time.Now().UTC(),
	})
}

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Entry) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	e.userID = userID
	return nil
}

func (e *Entry) setAmount(amount kernel.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	e.amount = amount
	return nil
}

func trimRefs(r Refs) Refs {
	return Refs{
		CardRef:          strings.TrimSpace(r.CardRef),
		PaymentIntentRef: strings.TrimSpace(r.PaymentIntentRef),
		ChargeRef:        strings.TrimSpace(r.ChargeRef),
		TransferRef:      strings.TrimSpace(r.TransferRef),
		IdempotencyKey:   strings.TrimSpace(r.IdempotencyKey),
	}
}
