package job

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// DeliveryStatus is the job-level progress.
//
//	Open ──select driver──> InProgress ──complete──> Delivered
//	                            │
//	                            └──driver quits──> Canceled
//
// Open is the stored zero value: the job has no status yet.
type DeliveryStatus int

const (
	Open DeliveryStatus = iota
	InProgress
	Delivered
	Canceled
)

func getDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		Open:       "OPEN",
		InProgress: "IN_PROGRESS",
		Delivered:  "DELIVERED",
		Canceled:   "CANCELED",
	}
}

func (s DeliveryStatus) Validate() error {
	if _, ok := getDeliveryStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s DeliveryStatus) String() string {
	if str, ok := getDeliveryStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is possible.
func (s DeliveryStatus) IsTerminal() bool {
	return s == Delivered || s == Canceled
}

// Start is the transition taken when a customer selects a driver.
func (s DeliveryStatus) Start() (DeliveryStatus, error) {
	if s != Open {
		return s, errs.NewIllegalTransitionError("select driver", fmt.Sprintf("job is %s", s))
	}
	return InProgress, nil
}

// Deliver is the transition taken once every drop-off is completed.
func (s DeliveryStatus) Deliver() (DeliveryStatus, error) {
	if s != InProgress {
		return s, errs.NewIllegalTransitionError("complete delivery", fmt.Sprintf("job is %s", s))
	}
	return Delivered, nil
}

// Cancel is the transition taken when the assigned driver quits.
func (s DeliveryStatus) Cancel() (DeliveryStatus, error) {
	if s != InProgress {
		return s, errs.NewIllegalTransitionError("quit job", fmt.Sprintf("job is %s", s))
	}
	return Canceled, nil
}

// ValidateCanHavePartner checks the status against the presence of a delivery partner.
// In-progress and delivered jobs need one; canceled jobs have had it cleared.
func (s DeliveryStatus) ValidateCanHavePartner(hasPartner bool) error {
	if !hasPartner && (s == InProgress || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery status is invalid",
			fmt.Errorf("%s requires a delivery partner", s),
		)
	}
	if hasPartner && s == Canceled {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery status is invalid",
			fmt.Errorf("%s cannot keep a delivery partner", s),
		)
	}
	return nil
}
