package userrepo

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/adapters/out/postgres/pgerrs"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormUserRepository(db *gorm.DB, tracker aggregateTracker) *GormUserRepository {
	return &GormUserRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new user. A second account with the same email is rejected.
func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err, "ux_users_email") {
			return errs.NewIllegalTransitionErrorWithCause("register user", "email is already registered", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormUserRepository) Update(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&UserDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"name":                  dto.Name,
		"phone":                 dto.Phone,
		"photo_ref":             dto.PhotoRef,
		"payment_account_id":    dto.PaymentAccountID,
		"payment_account_ready": dto.PaymentAccountReady,
	})
	if result.Error != nil {
		if pgerrs.IsUniqueViolation(result.Error, "ux_users_payment_account") {
			return errs.NewIllegalTransitionErrorWithCause(
				"link payment account", "account is linked to another user", result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("user", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormUserRepository) GetByPaymentAccount(ctx context.Context, accountID string) (*user.User, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, errs.NewValueIsRequiredError("payment account")
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "payment_account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment account", accountID)
		}
		return nil, err
	}

	return toDomain(dto)
}
