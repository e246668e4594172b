package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetJobQueryIsNotConstructed = errors.New(
	"GetJobQuery must be created via NewGetJobQuery constructor",
)

// GetJobQuery reads one job with its route. Only the owner, the assigned
// driver and applicants may read it.
//
// Example:
//
//	query, err := NewGetJobQuery(jobID, callerID)
//	if err != nil {
//	    return err
//	}
//	details, err := NewGetJobQueryHandler(db).Handle(ctx, query)
type GetJobQuery struct {
	jobID    kernel.UUID
	callerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetJobQuery(jobID, callerID kernel.UUID) (GetJobQuery, error) {
	if err := errors.Join(jobID.Validate(), callerID.Validate()); err != nil {
		return GetJobQuery{}, err
	}
	return GetJobQuery{
		jobID:    jobID,
		callerID: callerID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetJobQuery) Validate() error {
	return q.guard.Validate(ErrGetJobQueryIsNotConstructed)
}

func (q GetJobQuery) JobID() kernel.UUID    { return q.jobID }
func (q GetJobQuery) CallerID() kernel.UUID { return q.callerID }

// DropOffView is one leg of the route as shown to clients.
type DropOffView struct {
	ID              kernel.UUID
	Position        int
	Address         string
	Latitude        *float64
	Longitude       *float64
	ItemCount       int
	WeightKg        float64
	LengthCm        float64
	HeightCm        float64
	Instructions    string
	PickupImageRef  string
	DropOffImageRef string
	DropOffPoint    int
	DropOffDetails  string
	Status          string
	StatusMessage   string
}

type GetJobQueryResponse struct {
	JobSummary
	PickupLatitude       *float64
	PickupLongitude      *float64
	PartnerImageVerified bool
	Applicants           []kernel.UUID
	DropOffs             []DropOffView
}
