package errs_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIllegalTransitionError(t *testing.T) {
	t.Run("NewIllegalTransitionError", func(t *testing.T) {
		err := errs.NewIllegalTransitionError("select driver", "delivery partner is already assigned")

		assert.Equal(t, "select driver", err.Action)
		require.NoError(t, err.Cause)
		assert.Equal(t,
			"illegal transition: select driver: delivery partner is already assigned",
			err.Error())
		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("NewIllegalTransitionErrorWithCause", func(t *testing.T) {
		cause := errors.New("stale version")
		err := errs.NewIllegalTransitionErrorWithCause("advance drop-off", "job changed", cause)

		assert.Equal(t,
			"illegal transition: advance drop-off: job changed (cause: stale version)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}

func TestAuthorizationError(t *testing.T) {
	err := errs.NewAuthorizationError("select a driver", "42")

	assert.Equal(t, "not authorized: 42 cannot select a driver", err.Error())
	require.ErrorIs(t, err, errs.ErrNotAuthorized)
	assert.NotErrorIs(t, err, errs.ErrIllegalTransition)
}

func TestPaymentError(t *testing.T) {
	testCases := []struct {
		name     string
		kind     errs.PaymentErrorKind
		sentinel error
	}{
		{name: "deduction", kind: errs.DeductionFailed, sentinel: errs.ErrDeductionFailed},
		{name: "transfer", kind: errs.TransferFailed, sentinel: errs.ErrTransferFailed},
		{name: "payout", kind: errs.PayoutFailed, sentinel: errs.ErrPayoutFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := errs.NewPaymentError(tc.kind, "card declined")

			require.ErrorIs(t, err, tc.sentinel)
			require.ErrorIs(t, err, errs.ErrPaymentFailed)
			assert.Contains(t, err.Error(), string(tc.kind))
		})
	}

	t.Run("kinds are distinguishable", func(t *testing.T) {
		err := errs.NewPaymentError(errs.DeductionFailed, "declined")
		assert.NotErrorIs(t, err, errs.ErrTransferFailed)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("network")
		err := errs.NewPaymentErrorWithCause(errs.TransferFailed, "transfer rejected", cause)

		assert.Equal(t,
			"payment failed: TRANSFER_FAILED: transfer rejected (cause: network)",
			err.Error())

		var paymentErr *errs.PaymentError
		require.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, errs.TransferFailed, paymentErr.Kind)
	})
}
