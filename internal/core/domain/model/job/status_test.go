package job_test

import (
	"testing"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryStatus_Transitions(t *testing.T) {
	testCases := []struct {
		name    string
		from    job.DeliveryStatus
		apply   func(job.DeliveryStatus) (job.DeliveryStatus, error)
		want    job.DeliveryStatus
		wantErr bool
	}{
		{name: "open starts", from: job.Open, apply: job.DeliveryStatus.Start, want: job.InProgress},
		{name: "in progress cannot start", from: job.InProgress, apply: job.DeliveryStatus.Start, wantErr: true},
		{name: "in progress delivers", from: job.InProgress, apply: job.DeliveryStatus.Deliver, want: job.Delivered},
		{name: "open cannot deliver", from: job.Open, apply: job.DeliveryStatus.Deliver, wantErr: true},
		{name: "in progress cancels", from: job.InProgress, apply: job.DeliveryStatus.Cancel, want: job.Canceled},
		{name: "canceled cannot cancel", from: job.Canceled, apply: job.DeliveryStatus.Cancel, wantErr: true},
		{name: "delivered cannot cancel", from: job.Delivered, apply: job.DeliveryStatus.Cancel, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.apply(tc.from)
			if tc.wantErr {
				require.ErrorIs(t, err, errs.ErrIllegalTransition)
				assert.Equal(t, tc.from, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeliveryStatus_ValidateCanHavePartner(t *testing.T) {
	require.NoError(t, job.Open.ValidateCanHavePartner(false))
	require.NoError(t, job.Open.ValidateCanHavePartner(true))
	require.NoError(t, job.InProgress.ValidateCanHavePartner(true))
	require.Error(t, job.InProgress.ValidateCanHavePartner(false))
	require.Error(t, job.Delivered.ValidateCanHavePartner(false))
	require.Error(t, job.Canceled.ValidateCanHavePartner(true))
	require.NoError(t, job.Canceled.ValidateCanHavePartner(false))
}

func TestDropOffStatus_AdvanceTo(t *testing.T) {
	next, err := job.OnTheWayToPickup.AdvanceTo(job.OnTheWayToDropOff)
	require.NoError(t, err)
	assert.Equal(t, job.OnTheWayToDropOff, next)

	next, err = job.OnTheWayToDropOff.AdvanceTo(job.DropOffCompleted)
	require.NoError(t, err)
	assert.Equal(t, job.DropOffCompleted, next)

	next, err = job.OnTheWayToPickup.AdvanceTo(job.OnTheWayToPickup)
	require.NoError(t, err)
	assert.Equal(t, job.OnTheWayToPickup, next)

	_, err = job.OnTheWayToPickup.AdvanceTo(job.DropOffCompleted)
	require.ErrorIs(t, err, errs.ErrIllegalTransition)

	_, err = job.OnTheWayToDropOff.AdvanceTo(job.OnTheWayToDropOff)
	require.ErrorIs(t, err, errs.ErrIllegalTransition)

	_, err = job.OnTheWayToPickup.AdvanceTo(job.DropOffStatus(0))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = job.DropOffCompleted.AdvanceTo(job.OnTheWayToDropOff)
	require.ErrorIs(t, err, errs.ErrIllegalTransition)

	_, err = job.OnTheWayToPickup.AdvanceTo(job.DropOffStatus(9))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDropOffStatus_Strings(t *testing.T) {
	assert.Equal(t, "ON_THE_WAY_TO_PICKUP", job.OnTheWayToPickup.String())
	assert.Equal(t, "Arrived at drop-off location", job.DropOffCompleted.Message())
	assert.Equal(t, "UNKNOWN", job.DropOffStatus(42).String())
	assert.Equal(t, "IN_PROGRESS", job.InProgress.String())
	assert.Equal(t, "SINGLE_DROPOFF", job.SingleDropOff.String())
}

func TestOrderNumber(t *testing.T) {
	n, err := job.ParseOrderNumber("#1041")
	require.NoError(t, err)
	assert.Equal(t, job.OrderNumber(1041), n)
	assert.Equal(t, "#1042", n.Next().String())

	_, err = job.ParseOrderNumber("#abc")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
