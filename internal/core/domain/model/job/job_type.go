package job

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Type is the shape of a job.
type Type int

const (
	UnknownType Type = iota
	SingleDropOff
	MultipleDropOff
	TeamJob
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		UnknownType:     "UNKNOWN",
		SingleDropOff:   "SINGLE_DROPOFF",
		MultipleDropOff: "MULTIPLE_DROPOFF",
		TeamJob:         "TEAM_JOB",
	}
}

func (t Type) Validate() error {
	if t != SingleDropOff && t != MultipleDropOff && t != TeamJob {
		return errs.NewValueIsInvalidErrorWithCause("job type is invalid", fmt.Errorf("%d is not a valid job type", t))
	}
	return nil
}

func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "UNKNOWN"
}
