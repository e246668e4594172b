package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetAvailableJobsQueryIsNotConstructed = errors.New(
	"GetAvailableJobsQuery must be created via NewGetAvailableJobsQuery constructor",
)

// GetAvailableJobsQuery lists open jobs a driver has not applied to yet.
type GetAvailableJobsQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetAvailableJobsQuery(driverID kernel.UUID) (GetAvailableJobsQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetAvailableJobsQuery{}, err
	}
	return GetAvailableJobsQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAvailableJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableJobsQueryIsNotConstructed)
}

func (q GetAvailableJobsQuery) DriverID() kernel.UUID {
	return q.driverID
}
