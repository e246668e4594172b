package queries

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrGetJobsQueryIsNotConstructed = errors.New(
	"GetJobsQuery must be created via NewGetJobsQuery constructor",
)

// JobFilter selects which slice of a user's jobs to list.
type JobFilter string

const (
	ActiveJobs    JobFilter = "active"
	ScheduledJobs JobFilter = "scheduled"
	CompletedJobs JobFilter = "completed"
)

func ParseJobFilter(s string) (JobFilter, error) {
	switch f := JobFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case ActiveJobs, ScheduledJobs, CompletedJobs:
		return f, nil
	default:
		return "", errs.NewValueIsInvalidError("job filter")
	}
}

// GetJobsQuery lists the jobs of a customer or driver. The caller's role
// decides which relation is used: ownership for customers, assignment for
// drivers.
//
// Example:
//
//	query, _ := NewGetJobsQuery(userID, ScheduledJobs)
//	response, err := handler.Handle(ctx, query)
//	for _, day := range response.Scheduled {
//	    fmt.Println(day.PickupDate, len(day.Jobs))
//	}
type GetJobsQuery struct {
	userID kernel.UUID
	filter JobFilter

	guard guard.ConstructorGuard
}

func NewGetJobsQuery(userID kernel.UUID, filter JobFilter) (GetJobsQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetJobsQuery{}, err
	}
	if _, err := ParseJobFilter(string(filter)); err != nil {
		return GetJobsQuery{}, err
	}
	return GetJobsQuery{userID: userID, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q GetJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetJobsQueryIsNotConstructed)
}

func (q GetJobsQuery) UserID() kernel.UUID { return q.userID }
func (q GetJobsQuery) Filter() JobFilter   { return q.filter }

// JobsOnDate groups scheduled jobs sharing a pickup date.
type JobsOnDate struct {
	PickupDate string
	Jobs       []JobSummary
}

// GetJobsQueryResponse carries Jobs for the active and completed filters and
// Scheduled for the scheduled filter.
type GetJobsQueryResponse struct {
	Jobs      []JobSummary
	Scheduled []JobsOnDate
}
