package jobrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/pgerrs"
	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderNumberLock is the pg_advisory_xact_lock key that serializes order
// number allocation.
const orderNumberLock int64 = 0x6a6f6273

const maxAddAttempts = 3

var ErrJobChanged = errs.NewIllegalTransitionErrorWithCause(
	"update job", "job was changed by another request", errs.NewVersionIsInvalidError("version"))

// GormJobRepository implements JobRepository using GORM.
type GormJobRepository struct {
	db               *gorm.DB
	tracker          aggregateTracker
	firstOrderNumber job.OrderNumber
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormJobRepository creates a new GORM job repository. Order numbers
// start at firstOrderNumber; zero means job.DefaultFirstOrderNumber.
func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker, firstOrderNumber job.OrderNumber) *GormJobRepository {
	if !firstOrderNumber.IsAssigned() {
		firstOrderNumber = job.DefaultFirstOrderNumber
	}
	return &GormJobRepository{
		db:               db,
		tracker:          tracker,
		firstOrderNumber: firstOrderNumber,
	}
}

// Add inserts the job with the next free order number. The number is
// assigned to the aggregate only after the row is stored.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	var err error
	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			next, nextErr := r.nextOrderNumber(tx)
			if nextErr != nil {
				return nextErr
			}
			dto.OrderNumber = int64(next)
			return tx.Create(&dto).Error
		})
		if !pgerrs.IsUniqueViolation(err, "ux_jobs_order_number") {
			break
		}
	}
	if err != nil {
		if pgerrs.IsUniqueViolation(err) {
			return errs.NewIllegalTransitionErrorWithCause("add job", "job already exists", err)
		}
		return err
	}

	if err = aggregate.AssignOrderNumber(job.OrderNumber(dto.OrderNumber)); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormJobRepository) nextOrderNumber(tx *gorm.DB) (job.OrderNumber, error) {
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", orderNumberLock).Error; err != nil {
		return 0, err
	}

	var last int64
	if err := tx.Model(&JobDTO{}).Select("COALESCE(MAX(order_number), 0)").Scan(&last).Error; err != nil {
		return 0, err
	}

	next := job.OrderNumber(last).Next()
	if next < r.firstOrderNumber {
		next = r.firstOrderNumber
	}
	return next, nil
}

// Update saves the job if nobody changed it since it was read.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	return r.save(ctx, aggregate, false)
}

// UpdateAssignment saves a job whose delivery partner was just selected. Of
// two concurrent selections only the first one finds the partner unset.
func (r *GormJobRepository) UpdateAssignment(ctx context.Context, aggregate *job.Job) error {
	return r.save(ctx, aggregate, true)
}

func (r *GormJobRepository) save(ctx context.Context, aggregate *job.Job, assignment bool) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&JobDTO{}).Where("id = ? AND version = ?", dto.ID, dto.Version)
		if assignment {
			query = query.Where("delivery_partner IS NULL")
		}

		result := query.Updates(map[string]any{
			"title":                  dto.Title,
			"applicants":             dto.Applicants,
			"delivery_partner":       dto.DeliveryPartner,
			"partner_image_verified": dto.PartnerImageVerified,
			"delivery_status":        dto.DeliveryStatus,
			"version":                dto.Version + 1,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.conflict(tx, dto.ID, assignment)
		}

		if err := tx.Save(&dto.DropOffs).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", dto.ID).Delete(&QuitDTO{}).Error; err != nil {
			return err
		}
		if len(dto.Quits) > 0 {
			return tx.Create(&dto.Quits).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// conflict explains why a conditional update matched no row.
func (r *GormJobRepository) conflict(tx *gorm.DB, id uuid.UUID, assignment bool) error {
	var dto JobDTO
	if err := tx.Select("id", "delivery_partner").First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("job", id.String())
		}
		return err
	}
	if assignment && dto.DeliveryPartner != nil {
		return errs.NewIllegalTransitionError("select driver", "a driver is already selected")
	}
	return ErrJobChanged
}

// MarkAmountDeducted sets the deducted flag unless it is already set.
func (r *GormJobRepository) MarkAmountDeducted(ctx context.Context, jobID kernel.UUID) (bool, error) {
	if err := jobID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ? AND is_amount_deducted = ?", jobID.Bytes(), false).
		Update("is_amount_deducted", true)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&JobDTO{}).Where("id = ?", jobID.Bytes()).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, errs.NewObjectNotFoundError("job", jobID.String())
	}
	return false, nil
}

// Get retrieves a job with its drop-offs in route order and its quit history.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	err := r.db.WithContext(ctx).
		Preload("DropOffs", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Quits", func(db *gorm.DB) *gorm.DB { return db.Order("at ASC, id ASC") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
