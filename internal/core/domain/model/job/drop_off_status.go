package job

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// DropOffStatus is the progress of one delivery leg. A drop-off is created
// OnTheWayToPickup and only ever moves one step forward:
// OnTheWayToPickup → OnTheWayToDropOff → Completed.
type DropOffStatus int

const (
	OnTheWayToPickup DropOffStatus = iota + 1
	OnTheWayToDropOff
	DropOffCompleted
)

func getDropOffStatusStrings() map[DropOffStatus]string {
	return map[DropOffStatus]string{
		OnTheWayToPickup:  "ON_THE_WAY_TO_PICKUP",
		OnTheWayToDropOff: "ON_THE_WAY_TO_DROPOFF",
		DropOffCompleted:  "COMPLETED",
	}
}

func getDropOffStatusMessages() map[DropOffStatus]string {
	return map[DropOffStatus]string{
		OnTheWayToPickup:  "On the way to pickup",
		OnTheWayToDropOff: "On the way to drop-off",
		DropOffCompleted:  "Arrived at drop-off location",
	}
}

func (s DropOffStatus) Validate() error {
	if _, ok := getDropOffStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("drop-off status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s DropOffStatus) String() string {
	if str, ok := getDropOffStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Message is the text shown to the customer when the status is reached.
func (s DropOffStatus) Message() string {
	return getDropOffStatusMessages()[s]
}

// AdvanceTo permits exactly the next step. Reporting OnTheWayToPickup on a
// drop-off that is still OnTheWayToPickup acknowledges the start of the leg.
func (s DropOffStatus) AdvanceTo(target DropOffStatus) (DropOffStatus, error) {
	if err := target.Validate(); err != nil {
		return s, err
	}
	if target == OnTheWayToPickup && s == OnTheWayToPickup {
		return s, nil
	}
	if target <= s {
		return s, errs.NewIllegalTransitionError("advance drop-off",
			fmt.Sprintf("drop-off is already %s, cannot move back to %s", s, target))
	}
	if target != s+1 {
		return s, errs.NewIllegalTransitionError("advance drop-off",
			fmt.Sprintf("drop-off is %s, next status is %s", s, s+1))
	}
	return target, nil
}

// DropOffPoint is where the driver left the items.
type DropOffPoint int

const (
	NoDropOffPoint DropOffPoint = iota
	FrontDoor
	BackDoor
	Reception
	Mailroom
	HandedToRecipient
	OtherPoint
)

func (p DropOffPoint) Validate() error {
	if p < NoDropOffPoint || p > OtherPoint {
		return errs.NewValueIsOutOfRangeError("drop-off point", int(p), int(NoDropOffPoint), int(OtherPoint))
	}
	return nil
}
