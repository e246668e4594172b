package withdrawrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWithdrawRepository implements WithdrawRepository using GORM.
type GormWithdrawRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormWithdrawRepository(db *gorm.DB, tracker aggregateTracker) *GormWithdrawRepository {
	return &GormWithdrawRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormWithdrawRepository) Add(ctx context.Context, withdraw *payment.Withdraw) error {
	if err := withdraw.Validate(); err != nil {
		return err
	}

	dto := fromDomain(withdraw)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(withdraw.ID(), withdraw)
	return nil
}

// Get is used by the payout history and by tests.
func (r *GormWithdrawRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Withdraw, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WithdrawDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("withdraw", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
