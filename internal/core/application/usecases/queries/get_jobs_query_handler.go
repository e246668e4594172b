package queries

import (
	"context"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

const routeStarted = `EXISTS (SELECT 1 FROM drop_offs d WHERE d.job_id = j.id AND d.started)`

type GetJobsQueryHandler struct {
	db *gorm.DB
}

func NewGetJobsQueryHandler(db *gorm.DB) GetJobsQueryHandler {
	return GetJobsQueryHandler{db: db}
}

// Handle resolves the caller's role and runs the matching listing.
// A job counts as scheduled while it is assigned but the driver has not
// started any drop-off; once the driver sets off it becomes active.
func (h GetJobsQueryHandler) Handle(ctx context.Context, query GetJobsQuery) (GetJobsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetJobsQueryResponse{}, err
	}

	role, err := loadRole(ctx, h.db, query.UserID())
	if err != nil {
		return GetJobsQueryResponse{}, err
	}

	where, args, err := jobsFilter(role, query)
	if err != nil {
		return GetJobsQueryResponse{}, err
	}

	order := "j.created_at DESC"
	if query.Filter() == ScheduledJobs {
		order = "j.pickup_date, j.pickup_time, j.created_at"
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+jobSummaryColumns+`
		FROM jobs j
		WHERE `+where+`
		ORDER BY `+order, args...).Rows()
	if err != nil {
		return GetJobsQueryResponse{}, err
	}
	jobs, err := scanJobSummaries(rows)
	if err != nil {
		return GetJobsQueryResponse{}, err
	}

	if query.Filter() == ScheduledJobs {
		return GetJobsQueryResponse{Scheduled: groupByPickupDate(jobs)}, nil
	}
	return GetJobsQueryResponse{Jobs: jobs}, nil
}

func jobsFilter(role user.Role, query GetJobsQuery) (string, []any, error) {
	id := query.UserID().Bytes()
	finished := []any{int(job.Delivered), int(job.Canceled)}

	switch role {
	case user.Driver:
		switch query.Filter() {
		case ActiveJobs:
			return "j.delivery_partner = ? AND j.delivery_status = ? AND " + routeStarted,
				[]any{id, int(job.InProgress)}, nil
		case ScheduledJobs:
			return "j.delivery_partner = ? AND j.delivery_status = ? AND NOT " + routeStarted,
				[]any{id, int(job.InProgress)}, nil
		case CompletedJobs:
			return "j.delivery_partner = ? AND j.delivery_status IN ?",
				[]any{id, finished}, nil
		}
	case user.Customer:
		switch query.Filter() {
		case ActiveJobs:
			return "j.customer_id = ? AND j.delivery_partner IS NULL AND j.delivery_status = ?",
				[]any{id, int(job.Open)}, nil
		case ScheduledJobs:
			return "j.customer_id = ? AND j.delivery_partner IS NOT NULL AND j.delivery_status = ?",
				[]any{id, int(job.InProgress)}, nil
		case CompletedJobs:
			return "j.customer_id = ? AND j.delivery_status IN ?",
				[]any{id, finished}, nil
		}
	}
	return "", nil, errs.NewAuthorizationError("list jobs", query.UserID().String())
}

// groupByPickupDate keeps the incoming order; rows arrive sorted by date.
func groupByPickupDate(jobs []JobSummary) []JobsOnDate {
	groups := make([]JobsOnDate, 0)
	for _, j := range jobs {
		if n := len(groups); n > 0 && groups[n-1].PickupDate == j.PickupDate {
			groups[n-1].Jobs = append(groups[n-1].Jobs, j)
			continue
		}
		groups = append(groups, JobsOnDate{PickupDate: j.PickupDate, Jobs: []JobSummary{j}})
	}
	return groups
}
