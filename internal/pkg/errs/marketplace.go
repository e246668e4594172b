package errs

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrPaymentFailed     = errors.New("payment failed")

	ErrDeductionFailed = fmt.Errorf("%w: %s", ErrPaymentFailed, DeductionFailed)
	ErrTransferFailed  = fmt.Errorf("%w: %s", ErrPaymentFailed, TransferFailed)
	ErrPayoutFailed    = fmt.Errorf("%w: %s", ErrPaymentFailed, PayoutFailed)
)

// IllegalTransitionError reports a state machine precondition violation.
type IllegalTransitionError struct {
	Action string
	Reason string
	Cause  error
}

func NewIllegalTransitionError(action, reason string) *IllegalTransitionError {
	return &IllegalTransitionError{
		Action: action,
		Reason: reason,
	}
}

func NewIllegalTransitionErrorWithCause(action, reason string, cause error) *IllegalTransitionError {
	return &IllegalTransitionError{
		Action: action,
		Reason: reason,
		Cause:  cause,
	}
}

func (e *IllegalTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrIllegalTransition, e.Action, sanitize(e.Reason))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// AuthorizationError reports a caller acting outside its role or ownership.
type AuthorizationError struct {
	Action  string
	ActorID any
}

func NewAuthorizationError(action string, actorID any) *AuthorizationError {
	return &AuthorizationError{
		Action:  action,
		ActorID: actorID,
	}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %v cannot %s", ErrNotAuthorized, e.ActorID, e.Action)
}

func (e *AuthorizationError) Unwrap() error {
	return ErrNotAuthorized
}

// PaymentErrorKind is the machine-readable category of a processor failure.
type PaymentErrorKind string

const (
	DeductionFailed PaymentErrorKind = "DEDUCTION_FAILED"
	TransferFailed  PaymentErrorKind = "TRANSFER_FAILED"
	PayoutFailed    PaymentErrorKind = "PAYOUT_FAILED"
)

// PaymentError reports a rejected or failed call to the payment processor.
// errors.Is matches both ErrPaymentFailed and the sentinel of its Kind.
type PaymentError struct {
	Kind    PaymentErrorKind
	Message string
	Cause   error
}

func NewPaymentError(kind PaymentErrorKind, message string) *PaymentError {
	return &PaymentError{
		Kind:    kind,
		Message: message,
	}
}

func NewPaymentErrorWithCause(kind PaymentErrorKind, message string, cause error) *PaymentError {
	return &PaymentError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

func (e *PaymentError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrPaymentFailed, e.Kind, sanitize(e.Message))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *PaymentError) Unwrap() error {
	switch e.Kind {
	case DeductionFailed:
		return ErrDeductionFailed
	case TransferFailed:
		return ErrTransferFailed
	case PayoutFailed:
		return ErrPayoutFailed
	default:
		return ErrPaymentFailed
	}
}
