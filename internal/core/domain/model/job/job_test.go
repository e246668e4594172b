package job_test

import (
	"testing"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDropOff(t *testing.T) *job.DropOff {
	t.Helper()
	loc, err := kernel.NewAddressLocation("221B Baker St")
	require.NoError(t, err)
	d, err := job.NewDropOff(kernel.NewUUID(), loc, job.Items{Count: 2, WeightKg: 3.5}, "ring twice")
	require.NoError(t, err)
	return d
}

func newJob(t *testing.T, jobType job.Type, dropOffs int) *job.Job {
	t.Helper()
	pickup, err := kernel.NewLocation("1 Warehouse Way", 40.7, -74.0)
	require.NoError(t, err)
	amount, err := kernel.MoneyFromUnits(40)
	require.NoError(t, err)

	legs := make([]*job.DropOff, 0, dropOffs)
	for range dropOffs {
		legs = append(legs, newDropOff(t))
	}

	j, err := job.NewJob(
		kernel.NewUUID(),
		kernel.NewUUID(),
		"Move a sofa",
		pickup,
		job.Schedule{PickupDate: "2025-05-01", PickupTime: "09:30"},
		jobType,
		amount,
		legs,
	)
	require.NoError(t, err)
	return j
}

// assignedJob returns a job with driver selected among two applicants.
func assignedJob(t *testing.T, dropOffs int) (*job.Job, kernel.UUID) {
	t.Helper()
	j := newJob(t, job.MultipleDropOff, dropOffs)
	driverA, driverB := kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, j.Apply(driverA))
	require.NoError(t, j.Apply(driverB))
	require.NoError(t, j.SelectDriver(j.CustomerID(), driverA))
	j.ClearDomainEvents()
	return j, driverA
}

func ptr[T any](v T) *T { return &v }

func TestNewJob(t *testing.T) {
	t.Run("valid single drop-off job", func(t *testing.T) {
		j := newJob(t, job.SingleDropOff, 1)

		require.NoError(t, j.Validate())
		assert.Equal(t, job.Open, j.DeliveryStatus())
		assert.Equal(t, int64(4000), j.Amount().Cents())
		assert.False(t, j.IsAmountDeducted())
		assert.True(t, j.IsAvailable())
		assert.Nil(t, j.DeliveryPartner())
		assert.False(t, j.OrderNumber().IsAssigned())
		assert.Equal(t, job.OnTheWayToPickup, j.DropOffs()[0].Status())
		assert.False(t, j.DropOffs()[0].IsStarted())
	})

	t.Run("single drop-off job rejects several drop-offs", func(t *testing.T) {
		pickup, _ := kernel.NewAddressLocation("x")
		amount, _ := kernel.MoneyFromUnits(40)

		_, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(), "t", pickup,
			job.Schedule{PickupDate: "2025-05-01"}, job.SingleDropOff, amount,
			[]*job.DropOff{newDropOff(t), newDropOff(t)})

		require.ErrorIs(t, err, job.ErrSingleDropOffJobHasMany)
		assert.Contains(t, err.Error(), "single dropoff job can only have one dropoff location")
	})

	t.Run("collects validation errors", func(t *testing.T) {
		_, err := job.NewJob(kernel.UUID{}, kernel.NewUUID(), "", kernel.Location{},
			job.Schedule{}, job.UnknownType, kernel.Money{}, nil)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, job.ErrTitleIsRequired)
		require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
		require.ErrorIs(t, err, job.ErrPickupDateIsRequired)
		require.ErrorIs(t, err, job.ErrAmountMustBePositive)
	})

	t.Run("requires a drop-off", func(t *testing.T) {
		pickup, _ := kernel.NewAddressLocation("x")
		amount, _ := kernel.MoneyFromUnits(40)

		_, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(), "t", pickup,
			job.Schedule{PickupDate: "2025-05-01"}, job.MultipleDropOff, amount, nil)

		require.ErrorIs(t, err, job.ErrDropOffsAreRequired)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		pickup, _ := kernel.NewAddressLocation("x")
		amount, _ := kernel.MoneyFromUnits(40)

		_, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(), "t", pickup,
			job.Schedule{PickupDate: "01/05/2025", PickupTime: "9am"}, job.SingleDropOff, amount,
			[]*job.DropOff{newDropOff(t)})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestJob_AssignOrderNumber(t *testing.T) {
	j := newJob(t, job.SingleDropOff, 1)

	require.NoError(t, j.AssignOrderNumber(job.DefaultFirstOrderNumber))
	assert.Equal(t, "#1000", j.OrderNumber().String())
	require.ErrorIs(t, j.AssignOrderNumber(1001), errs.ErrIllegalTransition)
}

func TestJob_Apply(t *testing.T) {
	t.Run("appends the driver and records an event", func(t *testing.T) {
		j := newJob(t, job.SingleDropOff, 1)
		driver := kernel.NewUUID()

		require.NoError(t, j.Apply(driver))

		assert.True(t, j.HasApplied(driver))
		require.Len(t, j.DomainEvents(), 1)
		assert.Equal(t, job.EventDriverApplied, j.DomainEvents()[0].EventName())
	})

	t.Run("same driver cannot apply twice", func(t *testing.T) {
		j := newJob(t, job.SingleDropOff, 1)
		driver := kernel.NewUUID()
		require.NoError(t, j.Apply(driver))

		require.ErrorIs(t, j.Apply(driver), errs.ErrIllegalTransition)
		assert.Len(t, j.Applicants(), 1)
	})

	t.Run("assigned job rejects applications", func(t *testing.T) {
		j, _ := assignedJob(t, 1)
		require.ErrorIs(t, j.Apply(kernel.NewUUID()), errs.ErrIllegalTransition)
	})
}

func TestJob_SelectDriver(t *testing.T) {
	t.Run("assigns an applicant and starts delivery", func(t *testing.T) {
		j := newJob(t, job.SingleDropOff, 1)
		a, b := kernel.NewUUID(), kernel.NewUUID()
		require.NoError(t, j.Apply(a))
		require.NoError(t, j.Apply(b))
		j.ClearDomainEvents()

		require.NoError(t, j.SelectDriver(j.CustomerID(), a))

		assert.True(t, j.IsPartner(a))
		assert.Equal(t, job.InProgress, j.DeliveryStatus())
		assert.False(t, j.IsAvailable())

		events := j.DomainEvents()
		require.Len(t, events, 1)
		assigned, ok := events[0].(job.JobAssigned)
		require.True(t, ok)
		assert.Equal(t, []kernel.UUID{b}, assigned.Rejected)
	})

	t.Run("only the owning customer may select", func(t *testing.T) {
		j := newJob(t, job.SingleDropOff, 1)
		a := kernel.NewUUID()
		require.NoError(t, j.Apply(a))

		require.ErrorIs(t, j.SelectDriver(kernel.NewUUID(), a), errs.ErrNotAuthorized)
	})

	t.Run("driver must have applied", func(t *testing.T) {
		j := newJob(t, job.SingleDropOff, 1)
		require.ErrorIs(t, j.SelectDriver(j.CustomerID(), kernel.NewUUID()), errs.ErrIllegalTransition)
	})

	t.Run("second selection fails", func(t *testing.T) {
		j, _ := assignedJob(t, 1)
		other := j.Applicants()[1]

		require.ErrorIs(t, j.SelectDriver(j.CustomerID(), other), errs.ErrIllegalTransition)
	})
}

func TestJob_AdvanceDropOff(t *testing.T) {
	t.Run("walks a drop-off through every status", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		leg := j.DropOffs()[0]

		msg, err := j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToPickup, job.Evidence{})
		require.NoError(t, err)
		assert.Equal(t, "On the way to pickup", msg)

		msg, err = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToDropOff,
			job.Evidence{PickupImageRef: ptr("pickups/1.jpg")})
		require.NoError(t, err)
		assert.Equal(t, "On the way to drop-off", msg)

		msg, err = j.AdvanceDropOff(driver, leg.ID(), job.DropOffCompleted,
			job.Evidence{DropOffImageRef: ptr("dropoffs/1.jpg")})
		require.NoError(t, err)
		assert.Equal(t, "Arrived at drop-off location", msg)

		assert.Equal(t, job.DropOffCompleted, leg.Status())
		assert.Equal(t, "pickups/1.jpg", leg.PickupImageRef())
		assert.Len(t, j.DomainEvents(), 3)
	})

	t.Run("heading to drop-off requires a pickup image", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		leg := j.DropOffs()[0]
		_, err := j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToPickup, job.Evidence{})
		require.NoError(t, err)

		_, err = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToDropOff, job.Evidence{})

		require.ErrorIs(t, err, job.ErrPickupImageIsRequired)
		assert.Equal(t, job.OnTheWayToPickup, leg.Status())
	})

	t.Run("completion accepts a drop-off point instead of an image", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		leg := j.DropOffs()[0]
		_, _ = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToPickup, job.Evidence{})
		_, _ = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToDropOff, job.Evidence{PickupImageRef: ptr("p.jpg")})

		_, err := j.AdvanceDropOff(driver, leg.ID(), job.DropOffCompleted, job.Evidence{})
		require.ErrorIs(t, err, job.ErrDropOffProofIsRequired)

		_, err = j.AdvanceDropOff(driver, leg.ID(), job.DropOffCompleted,
			job.Evidence{DropOffPoint: ptr(job.FrontDoor)})
		require.NoError(t, err)
		assert.Equal(t, job.FrontDoor, leg.DropOffPoint())
	})

	t.Run("completion accepts details only", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		leg := j.DropOffs()[0]
		_, _ = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToPickup, job.Evidence{})
		_, _ = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToDropOff, job.Evidence{PickupImageRef: ptr("p.jpg")})

		_, err := j.AdvanceDropOff(driver, leg.ID(), job.DropOffCompleted,
			job.Evidence{DropOffDetails: ptr("left with neighbour")})
		require.NoError(t, err)
	})

	t.Run("fresh drop-off goes straight to the drop-off leg", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		leg := j.DropOffs()[0]

		message, err := j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToDropOff,
			job.Evidence{PickupImageRef: ptr("proof/pickup.jpg")})

		require.NoError(t, err)
		assert.Equal(t, "On the way to drop-off", message)
		assert.Equal(t, job.OnTheWayToDropOff, leg.Status())
		assert.True(t, leg.IsStarted())
	})

	t.Run("reporting pickup on a fresh drop-off starts the leg", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		leg := j.DropOffs()[0]

		message, err := j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToPickup, job.Evidence{})
		require.NoError(t, err)
		assert.Equal(t, "On the way to pickup", message)
		assert.Equal(t, job.OnTheWayToPickup, leg.Status())
		assert.True(t, leg.IsStarted())

		_, err = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToPickup, job.Evidence{})
		require.NoError(t, err)
	})

	t.Run("status never moves backwards or skips", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		leg := j.DropOffs()[0]

		_, err := j.AdvanceDropOff(driver, leg.ID(), job.DropOffCompleted, job.Evidence{DropOffImageRef: ptr("d.jpg")})
		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Empty(t, leg.DropOffImageRef())
		assert.False(t, leg.IsStarted())

		_, err = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToDropOff, job.Evidence{PickupImageRef: ptr("p.jpg")})
		require.NoError(t, err)
		_, err = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToPickup, job.Evidence{})
		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		_, err = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToDropOff, job.Evidence{})
		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		_, err = j.AdvanceDropOff(driver, leg.ID(), job.DropOffStatus(0), job.Evidence{})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("only the partner may advance", func(t *testing.T) {
		j, _ := assignedJob(t, 1)
		_, err := j.AdvanceDropOff(kernel.NewUUID(), j.DropOffs()[0].ID(), job.OnTheWayToPickup, job.Evidence{})
		require.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("unknown drop-off", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		_, err := j.AdvanceDropOff(driver, kernel.NewUUID(), job.OnTheWayToPickup, job.Evidence{})
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func completeLeg(t *testing.T, j *job.Job, driver kernel.UUID, leg *job.DropOff) {
	t.Helper()
	_, err := j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToPickup, job.Evidence{})
	require.NoError(t, err)
	_, err = j.AdvanceDropOff(driver, leg.ID(), job.OnTheWayToDropOff, job.Evidence{PickupImageRef: ptr("p.jpg")})
	require.NoError(t, err)
	_, err = j.AdvanceDropOff(driver, leg.ID(), job.DropOffCompleted, job.Evidence{DropOffImageRef: ptr("d.jpg")})
	require.NoError(t, err)
}

func TestJob_CompleteDelivery(t *testing.T) {
	t.Run("fails naming the first incomplete drop-off", func(t *testing.T) {
		j, driver := assignedJob(t, 2)
		legs := j.DropOffs()
		completeLeg(t, j, driver, legs[0])

		err := j.CompleteDelivery(driver)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Contains(t, err.Error(), legs[1].ID().String())
		assert.Equal(t, job.InProgress, j.DeliveryStatus())
	})

	t.Run("succeeds once every drop-off is completed", func(t *testing.T) {
		j, driver := assignedJob(t, 2)
		for _, leg := range j.DropOffs() {
			completeLeg(t, j, driver, leg)
		}
		j.ClearDomainEvents()

		require.NoError(t, j.CompleteDelivery(driver))

		assert.Equal(t, job.Delivered, j.DeliveryStatus())
		require.Len(t, j.DomainEvents(), 1)
		assert.Equal(t, job.EventDeliveryCompleted, j.DomainEvents()[0].EventName())
		require.NoError(t, j.EnsureDelivered("review"))
	})

	t.Run("only the partner may complete", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		completeLeg(t, j, driver, j.DropOffs()[0])

		require.ErrorIs(t, j.CompleteDelivery(kernel.NewUUID()), errs.ErrNotAuthorized)
	})
}

func TestJob_Quit(t *testing.T) {
	t.Run("clears the partner and cancels", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		require.NoError(t, j.VerifyPartnerImage(driver))

		require.NoError(t, j.Quit(driver, "vehicle broke down"))

		assert.Nil(t, j.DeliveryPartner())
		assert.False(t, j.PartnerImageVerified())
		assert.Equal(t, job.Canceled, j.DeliveryStatus())
		require.Len(t, j.Quits(), 1)
		assert.Equal(t, "vehicle broke down", j.Quits()[0].Reason)
		assert.False(t, j.IsAvailable())

		_, err := j.AdvanceDropOff(driver, j.DropOffs()[0].ID(), job.OnTheWayToPickup, job.Evidence{})
		require.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("reason is required", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		require.ErrorIs(t, j.Quit(driver, " "), job.ErrQuitReasonIsRequired)
	})

	t.Run("delivered job cannot be quit", func(t *testing.T) {
		j, driver := assignedJob(t, 1)
		completeLeg(t, j, driver, j.DropOffs()[0])
		require.NoError(t, j.CompleteDelivery(driver))

		require.ErrorIs(t, j.Quit(driver, "changed my mind"), errs.ErrIllegalTransition)
	})
}

func TestJob_MarkAmountDeducted(t *testing.T) {
	j := newJob(t, job.SingleDropOff, 1)

	require.NoError(t, j.MarkAmountDeducted())
	assert.True(t, j.IsAmountDeducted())
	require.ErrorIs(t, j.MarkAmountDeducted(), errs.ErrIllegalTransition)
}

func TestRestoreJob(t *testing.T) {
	original, driver := assignedJob(t, 1)

	restored, err := job.RestoreJob(job.Snapshot{
		ID:              original.ID(),
		OrderNumber:     1007,
		CustomerID:      original.CustomerID(),
		Title:           original.Title(),
		Pickup:          original.Pickup(),
		Schedule:        original.Schedule(),
		Amount:          original.Amount(),
		Type:            original.Type(),
		DropOffs:        original.DropOffs(),
		Applicants:      original.Applicants(),
		DeliveryPartner: original.DeliveryPartner(),
		DeliveryStatus:  original.DeliveryStatus(),
		Version:         3,
	})

	require.NoError(t, err)
	assert.True(t, restored.IsPartner(driver))
	assert.Equal(t, 3, restored.Version())
	assert.Equal(t, "#1007", restored.OrderNumber().String())

	t.Run("partner must be an applicant", func(t *testing.T) {
		stranger := kernel.NewUUID()
		_, err := job.RestoreJob(job.Snapshot{
			ID: original.ID(), CustomerID: original.CustomerID(), Title: "x",
			Pickup: original.Pickup(), Amount: original.Amount(), Type: job.SingleDropOff,
			DropOffs: original.DropOffs(), DeliveryPartner: &stranger, DeliveryStatus: job.InProgress,
		})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("in-progress job needs a partner", func(t *testing.T) {
		_, err := job.RestoreJob(job.Snapshot{
			ID: original.ID(), CustomerID: original.CustomerID(), Title: "x",
			Pickup: original.Pickup(), Amount: original.Amount(), Type: job.SingleDropOff,
			DropOffs: original.DropOffs(), DeliveryStatus: job.InProgress,
		})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
