package queries

import (
	"context"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetAvailableJobsQueryHandler struct {
	db *gorm.DB
}

func NewGetAvailableJobsQueryHandler(db *gorm.DB) GetAvailableJobsQueryHandler {
	return GetAvailableJobsQueryHandler{db: db}
}

// Handle returns unassigned open jobs, newest first.
func (h GetAvailableJobsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableJobsQuery,
) ([]JobSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	role, err := loadRole(ctx, h.db, query.DriverID())
	if err != nil {
		return nil, err
	}
	if role != user.Driver {
		return nil, errs.NewAuthorizationError("browse available jobs", query.DriverID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+jobSummaryColumns+`
		FROM jobs j
		WHERE j.delivery_partner IS NULL
			AND j.delivery_status = ?
			AND NOT (? = ANY(COALESCE(j.applicants, '{}')))
		ORDER BY j.created_at DESC
	`, int(job.Open), query.DriverID().String()).Rows()
	if err != nil {
		return nil, err
	}
	return scanJobSummaries(rows)
}
