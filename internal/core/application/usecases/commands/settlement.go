package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

const DefaultProcessorTimeout = 15 * time.Second

var (
	ErrAlreadyTransferred = errs.NewIllegalTransitionError("transfer payment", "payment is already transferred")
	ErrDeductionPending   = errs.NewIllegalTransitionError("deduct payment", "a deduction for this job is still pending")
	ErrAlreadyDeducted    = errs.NewIllegalTransitionError("deduct payment", "amount is already deducted for this job")
	ErrNothingToTransfer  = errs.NewIllegalTransitionError("transfer payment", "job has no completed deduction to transfer")
	ErrNoDeliveryPartner  = errs.NewIllegalTransitionError("transfer payment", "job has no delivery partner")
)

// SettlementOptions configures the handlers that talk to the payment processor.
type SettlementOptions struct {
	Commission       services.CommissionPolicy
	ProcessorTimeout time.Duration
	Logger           *slog.Logger
}

// DeductionOutcome describes the ledger entry a deduction attempt produced.
// A pending outcome means the processor has not reported a result yet; the
// webhook or the reconciliation job will settle it.
type DeductionOutcome struct {
	EntryID          kernel.UUID
	Status           payment.Status
	Amount           kernel.Money
	PaymentIntentRef string
}

func (o DeductionOutcome) IsPending() bool {
	return o.Status == payment.Pending
}

type TransferOutcome struct {
	EntryID     kernel.UUID
	TransferRef string
	Amount      kernel.Money
}

// settlementEngine runs the deduct-then-transfer protocol.
//
// Processor calls are never made inside a database transaction. A transfer
// first claims its source deduction in a committed write, then calls the
// processor, then either records the transfer or releases the claim. A
// deduction records its ledger entry after the processor answered; an
// answer that never arrives is stored as PENDING.
type settlementEngine struct {
	uowFactory SettlementUoWFactory
	processor  ports.PaymentProcessor
	planner    services.TransferPlanner
	timeout    time.Duration
	logger     *slog.Logger
}

func newSettlementEngine(
	uowFactory SettlementUoWFactory,
	processor ports.PaymentProcessor,
	opts SettlementOptions,
) settlementEngine {
	if opts.ProcessorTimeout <= 0 {
		opts.ProcessorTimeout = DefaultProcessorTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return settlementEngine{
		uowFactory: uowFactory,
		processor:  processor,
		planner:    services.NewTransferPlanner(opts.Commission),
		timeout:    opts.ProcessorTimeout,
		logger:     opts.Logger.With("component", "settlement"),
	}
}

func deductionKey(jobID kernel.UUID, attempt int) string {
	return fmt.Sprintf("job:%s:deduction:%d", jobID, attempt)
}

func tipDeductionKey(jobID, tipID kernel.UUID) string {
	return fmt.Sprintf("job:%s:tip:%s:deduction", jobID, tipID)
}

func transferKey(entryID kernel.UUID) string {
	return fmt.Sprintf("deduction:%s:transfer", entryID)
}

func isUnknownOutcome(err error) bool {
	return errors.Is(err, ports.ErrOutcomeUnknown) || errors.Is(err, context.DeadlineExceeded)
}

func (e settlementEngine) inTx(ctx context.Context, fn func(uow SettlementUoW) error) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// chargeRequest is one attempt to take money from a customer.
type chargeRequest struct {
	job            *job.Job
	customer       *user.User
	amount         kernel.Money
	isTip          bool
	idempotencyKey string
}

// primaryDeductionState summarises the job's non-tip deductions.
type primaryDeductionState struct {
	completed      *payment.Entry
	pending        bool
	failedAttempts int
}

func inspectDeductions(entries []*payment.Entry) primaryDeductionState {
	var state primaryDeductionState
	for _, entry := range entries {
		if !entry.IsPrimaryDeduction() {
			continue
		}
		switch entry.Status() {
		case payment.Pending:
			state.pending = true
		case payment.Failed:
			state.failedAttempts++
		case payment.Completed:
			if state.completed == nil {
				state.completed = entry
			}
		}
	}
	return state
}

// prepareDeduction reads what a primary deduction needs and checks it may run.
func (e settlementEngine) prepareDeduction(
	ctx context.Context,
	jobID kernel.UUID,
	amount *kernel.Money,
	authorize func(*job.Job) error,
) (chargeRequest, error) {
	var req chargeRequest
	err := e.inTx(ctx, func(uow SettlementUoW) error {
		aggregate, err := uow.JobRepository().Get(ctx, jobID)
		if err != nil {
			return err
		}
		if err = authorize(aggregate); err != nil {
			return err
		}
		if aggregate.IsAmountDeducted() {
			return ErrAlreadyDeducted
		}

		entries, err := uow.PaymentRepository().FindDeductions(ctx, jobID)
		if err != nil {
			return err
		}
		state := inspectDeductions(entries)
		if state.pending {
			return ErrDeductionPending
		}
		if state.completed != nil {
			return ErrAlreadyDeducted
		}

		customer, err := uow.UserRepository().Get(ctx, aggregate.CustomerID())
		if err != nil {
			return err
		}

		req = chargeRequest{
			job:            aggregate,
			customer:       customer,
			amount:         aggregate.Amount(),
			idempotencyKey: deductionKey(jobID, state.failedAttempts),
		}
		if amount != nil {
			req.amount = *amount
		}
		return nil
	})
	return req, err
}

// charge asks the processor for the money and records the outcome. The
// recorded entry is returned alongside the outcome whenever one was written.
// Failures before the charge is attempted leave no ledger entry.
func (e settlementEngine) charge(ctx context.Context, req chargeRequest) (DeductionOutcome, *payment.Entry, error) {
	customerRef, ok := req.customer.PaymentAccountID()
	if !ok {
		return DeductionOutcome{}, nil, errs.NewPaymentError(errs.DeductionFailed, "customer has no payment account")
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	methodRef, err := e.processor.DefaultPaymentMethod(callCtx, customerRef)
	if err != nil {
		return DeductionOutcome{}, nil, errs.NewPaymentErrorWithCause(errs.DeductionFailed, "no usable payment method", err)
	}

	result, err := e.processor.Charge(callCtx, ports.ChargeRequest{
		CustomerRef:      customerRef,
		PaymentMethodRef: methodRef,
		Amount:           req.amount,
		Description:      fmt.Sprintf("Delivery %s", req.job.OrderNumber()),
		IdempotencyKey:   req.idempotencyKey,
		Metadata: map[string]string{
			"job_id": req.job.ID().String(),
			"is_tip": fmt.Sprintf("%t", req.isTip),
		},
	})

	status, failure := payment.Pending, ""
	switch {
	case err != nil && isUnknownOutcome(err):
		e.logger.Warn("charge outcome unknown, recording as pending",
			"job_id", req.job.ID().String(), "key", req.idempotencyKey, "error", err)
	case err != nil:
		status, failure = payment.Failed, err.Error()
	case result.Status == ports.ChargeSucceeded:
		status = payment.Completed
	case result.Status == ports.ChargeFailed:
		status, failure = payment.Failed, result.FailureMessage
	}

	entry, err := payment.NewDeduction(req.customer.ID(), req.job.ID(), req.amount, status, req.isTip, payment.Refs{
		CardRef:          methodRef,
		PaymentIntentRef: result.PaymentIntentRef,
		ChargeRef:        result.ChargeRef,
		IdempotencyKey:   req.idempotencyKey,
	})
	if err != nil {
		return DeductionOutcome{}, nil, err
	}

	// the charge happened; record it even if the caller went away
	recordCtx := context.WithoutCancel(ctx)
	err = e.inTx(recordCtx, func(uow SettlementUoW) error {
		if status == payment.Completed && !req.isTip {
			marked, markErr := uow.JobRepository().MarkAmountDeducted(recordCtx, req.job.ID())
			if markErr != nil {
				return markErr
			}
			if !marked {
				return ErrAlreadyDeducted
			}
		}
		return uow.PaymentRepository().Add(recordCtx, entry)
	})
	if err != nil {
		return DeductionOutcome{}, nil, err
	}

	outcome := DeductionOutcome{
		EntryID:          entry.ID(),
		Status:           status,
		Amount:           req.amount,
		PaymentIntentRef: result.PaymentIntentRef,
	}
	if status == payment.Failed {
		return outcome, entry, errs.NewPaymentError(errs.DeductionFailed, failure)
	}
	return outcome, entry, nil
}

// prepareTransfer finds the primary deduction of a delivered job and its driver.
func (e settlementEngine) prepareTransfer(
	ctx context.Context,
	jobID kernel.UUID,
	authorize func(*job.Job) error,
) (*payment.Entry, *user.User, error) {
	var (
		source *payment.Entry
		driver *user.User
	)
	err := e.inTx(ctx, func(uow SettlementUoW) error {
		aggregate, err := uow.JobRepository().Get(ctx, jobID)
		if err != nil {
			return err
		}
		if err = authorize(aggregate); err != nil {
			return err
		}
		if err = aggregate.EnsureDelivered("transfer payment"); err != nil {
			return err
		}
		if aggregate.DeliveryPartner() == nil {
			return ErrNoDeliveryPartner
		}

		entries, err := uow.PaymentRepository().FindDeductions(ctx, jobID)
		if err != nil {
			return err
		}
		state := inspectDeductions(entries)
		if state.completed == nil {
			return ErrNothingToTransfer
		}
		if state.completed.IsTransferred() {
			return ErrAlreadyTransferred
		}

		driver, err = uow.UserRepository().Get(ctx, *aggregate.DeliveryPartner())
		if err != nil {
			return err
		}
		source = state.completed
		return nil
	})
	return source, driver, err
}

// transfer forwards the driver's share of source, or of requested when set.
// At most one caller ever wins the claim on a given deduction.
func (e settlementEngine) transfer(
	ctx context.Context,
	source *payment.Entry,
	driver *user.User,
	requested *kernel.Money,
) (TransferOutcome, error) {
	accountRef, ok := driver.PaymentAccountID()
	if !ok || !driver.PaymentAccountReady() {
		return TransferOutcome{}, errs.NewPaymentError(errs.TransferFailed, "driver has no connected payment account")
	}

	share, err := e.planner.PlanAmount(source, requested)
	if err != nil {
		return TransferOutcome{}, err
	}

	err = e.inTx(ctx, func(uow SettlementUoW) error {
		claimed, claimErr := uow.PaymentRepository().ClaimTransfer(ctx, source.ID())
		if claimErr != nil {
			return claimErr
		}
		if !claimed {
			return ErrAlreadyTransferred
		}
		return nil
	})
	if err != nil {
		return TransferOutcome{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.processor.Transfer(callCtx, ports.TransferRequest{
		DestinationAccount: accountRef,
		Amount:             share,
		SourceChargeRef:    source.Refs().ChargeRef,
		TransferGroup:      "job:" + source.JobID().String(),
		IdempotencyKey:     transferKey(source.ID()),
	})

	recordCtx := context.WithoutCancel(ctx)
	if err != nil {
		releaseErr := e.inTx(recordCtx, func(uow SettlementUoW) error {
			return uow.PaymentRepository().ReleaseTransfer(recordCtx, source.ID())
		})
		if releaseErr != nil {
			e.logger.Error("failed to release transfer claim",
				"entry_id", source.ID().String(), "error", releaseErr)
		}
		return TransferOutcome{}, errs.NewPaymentErrorWithCause(errs.TransferFailed, "transfer to driver failed", err)
	}

	entry, err := payment.NewTransfer(driver.ID(), source, share, result.TransferRef)
	if err != nil {
		return TransferOutcome{}, err
	}
	err = e.inTx(recordCtx, func(uow SettlementUoW) error {
		return uow.PaymentRepository().Add(recordCtx, entry)
	})
	if err != nil {
		e.logger.Error("transfer sent but not recorded",
			"entry_id", source.ID().String(), "transfer_ref", result.TransferRef, "error", err)
		return TransferOutcome{}, err
	}

	return TransferOutcome{
		EntryID:     entry.ID(),
		TransferRef: result.TransferRef,
		Amount:      share,
	}, nil
}

// resolve stores the final outcome of a pending deduction. It reports false
// when somebody else resolved it first.
func (e settlementEngine) resolve(
	ctx context.Context,
	entry *payment.Entry,
	outcome payment.Status,
	paymentIntentRef, chargeRef string,
) (bool, error) {
	if entry.Status() != payment.Pending {
		return false, nil
	}
	if err := entry.Resolve(outcome, paymentIntentRef, chargeRef); err != nil {
		return false, err
	}

	resolved := false
	err := e.inTx(ctx, func(uow SettlementUoW) error {
		ok, err := uow.PaymentRepository().Resolve(ctx, entry)
		if err != nil || !ok {
			return err
		}
		resolved = true
		if outcome != payment.Completed || !entry.IsPrimaryDeduction() {
			return nil
		}
		marked, err := uow.JobRepository().MarkAmountDeducted(ctx, entry.JobID())
		if err != nil {
			return err
		}
		if !marked {
			e.logger.Warn("job was already marked deducted", "job_id", entry.JobID().String())
		}
		return nil
	})
	return resolved, err
}

// transferIfDue forwards a completed deduction when its job is delivered.
// Losing the claim to a concurrent caller is not an error.
func (e settlementEngine) transferIfDue(ctx context.Context, entry *payment.Entry) (bool, error) {
	if !entry.CanBeTransferred() {
		return false, nil
	}

	var driver *user.User
	err := e.inTx(ctx, func(uow SettlementUoW) error {
		aggregate, err := uow.JobRepository().Get(ctx, entry.JobID())
		if err != nil {
			return err
		}
		if aggregate.DeliveryStatus() != job.Delivered || aggregate.DeliveryPartner() == nil {
			return nil
		}
		driver, err = uow.UserRepository().Get(ctx, *aggregate.DeliveryPartner())
		return err
	})
	if err != nil || driver == nil {
		return false, err
	}

	_, err = e.transfer(ctx, entry, driver, nil)
	if errors.Is(err, ErrAlreadyTransferred) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// lookupOutcome asks the processor what became of a pending deduction. An
// entry stored without an intent reference is looked up by re-sending the
// original charge under its idempotency key, which returns the first
// result instead of charging again. ok is false while the charge is still
// processing.
func (e settlementEngine) lookupOutcome(
	ctx context.Context,
	entry *payment.Entry,
) (status payment.Status, result ports.ChargeResult, ok bool, err error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	refs := entry.Refs()
	if refs.PaymentIntentRef != "" {
		result, err = e.processor.RetrieveCharge(callCtx, refs.PaymentIntentRef)
	} else {
		var customer *user.User
		err = e.inTx(ctx, func(uow SettlementUoW) error {
			var getErr error
			customer, getErr = uow.UserRepository().Get(ctx, entry.UserID())
			return getErr
		})
		if err != nil {
			return payment.Pending, result, false, err
		}
		customerRef, _ := customer.PaymentAccountID()
		result, err = e.processor.Charge(callCtx, ports.ChargeRequest{
			CustomerRef:      customerRef,
			PaymentMethodRef: refs.CardRef,
			Amount:           entry.Amount(),
			IdempotencyKey:   refs.IdempotencyKey,
			Metadata:         map[string]string{"job_id": entry.JobID().String()},
		})
	}
	if err != nil {
		return payment.Pending, result, false, err
	}

	switch result.Status {
	case ports.ChargeSucceeded:
		return payment.Completed, result, true, nil
	case ports.ChargeFailed:
		return payment.Failed, result, true, nil
	default:
		return payment.Pending, result, false, nil
	}
}

// authorizeSettlement allows the owning customer and the assigned driver.
func authorizeSettlement(aggregate *job.Job, actorID kernel.UUID, action string) error {
	if aggregate.CustomerID().IsEqual(actorID) || aggregate.IsPartner(actorID) {
		return nil
	}
	return errs.NewAuthorizationError(action, actorID.String())
}
