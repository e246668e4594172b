package queries

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GetJobQueryHandler struct {
	db *gorm.DB
}

func NewGetJobQueryHandler(db *gorm.DB) GetJobQueryHandler {
	return GetJobQueryHandler{db: db}
}

// Handle loads the job and its drop-offs in route order.
func (h GetJobQueryHandler) Handle(ctx context.Context, query GetJobQuery) (GetJobQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetJobQueryResponse{}, err
	}

	response, err := h.loadJob(ctx, query.JobID())
	if err != nil {
		return GetJobQueryResponse{}, err
	}

	caller := query.CallerID()
	allowed := response.CustomerID.IsEqual(caller) ||
		(response.DeliveryPartner != nil && response.DeliveryPartner.IsEqual(caller)) ||
		kernel.ContainsUUID(response.Applicants, caller)
	if !allowed {
		return GetJobQueryResponse{}, errs.NewAuthorizationError("read job", caller.String())
	}

	if response.DropOffs, err = h.loadDropOffs(ctx, query.JobID()); err != nil {
		return GetJobQueryResponse{}, err
	}
	return response, nil
}

func (h GetJobQueryHandler) loadJob(ctx context.Context, jobID kernel.UUID) (GetJobQueryResponse, error) {
	var (
		response   GetJobQueryResponse
		applicants pq.StringArray
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT `+jobSummaryColumns+`,
			j.pickup_latitude,
			j.pickup_longitude,
			j.partner_image_verified,
			j.applicants
		FROM jobs j
		WHERE j.id = ?
	`, jobID.Bytes()).Row()

	summary, err := scanJobSummary(extendedRow{row: row, extra: []any{
		&response.PickupLatitude,
		&response.PickupLongitude,
		&response.PartnerImageVerified,
		&applicants,
	}})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetJobQueryResponse{}, errs.NewObjectNotFoundError("job", jobID.String())
		}
		return GetJobQueryResponse{}, err
	}
	response.JobSummary = summary

	if response.Applicants, err = kernel.UUIDsFromStrings(applicants); err != nil {
		return GetJobQueryResponse{}, err
	}
	return response, nil
}

func (h GetJobQueryHandler) loadDropOffs(ctx context.Context, jobID kernel.UUID) ([]DropOffView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			position,
			location_address,
			location_latitude,
			location_longitude,
			item_count,
			weight_kg,
			length_cm,
			height_cm,
			instructions,
			pickup_image_ref,
			drop_off_image_ref,
			drop_off_point,
			drop_off_details,
			status
		FROM drop_offs
		WHERE job_id = ?
		ORDER BY position
	`, jobID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dropOffs := make([]DropOffView, 0)
	for rows.Next() {
		var (
			view   DropOffView
			id     uuid.UUID
			status int
		)
		if err = rows.Scan(
			&id,
			&view.Position,
			&view.Address,
			&view.Latitude,
			&view.Longitude,
			&view.ItemCount,
			&view.WeightKg,
			&view.LengthCm,
			&view.HeightCm,
			&view.Instructions,
			&view.PickupImageRef,
			&view.DropOffImageRef,
			&view.DropOffPoint,
			&view.DropOffDetails,
			&status,
		); err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		view.Status = job.DropOffStatus(status).String()
		view.StatusMessage = job.DropOffStatus(status).Message()
		dropOffs = append(dropOffs, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return dropOffs, nil
}

// extendedRow appends extra destinations after the summary columns.
type extendedRow struct {
	row   rowScanner
	extra []any
}

func (r extendedRow) Scan(dest ...any) error {
	return r.row.Scan(append(dest, r.extra...)...)
}
