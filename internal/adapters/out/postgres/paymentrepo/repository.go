package paymentrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketplace/internal/adapters/out/postgres/pgerrs"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

var ErrIntentAlreadyRecorded = errs.NewIllegalTransitionError("record payment", "payment intent is already recorded")

// GormPaymentRepository implements PaymentRepository using GORM. Rows are
// never deleted; only the status, refs and transferred flag change.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPaymentRepository) Add(ctx context.Context, entry *payment.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err, "ux_payments_intent") {
			return errs.NewIllegalTransitionErrorWithCause(
				ErrIntentAlreadyRecorded.Action, ErrIntentAlreadyRecorded.Reason, err)
		}
		return err
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return nil
}

func (r *GormPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "payment entry", id.String(), r.db.Where("id = ?", id.Bytes()))
}

func (r *GormPaymentRepository) FindDeductions(ctx context.Context, jobID kernel.UUID) ([]*payment.Entry, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("job_id = ? AND transaction_type = ?", jobID.Bytes(), int(payment.CustomerDeduction)).
		Order("created_at ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormPaymentRepository) FindByPaymentIntent(ctx context.Context, paymentIntentRef string) (*payment.Entry, error) {
	paymentIntentRef = strings.TrimSpace(paymentIntentRef)
	if paymentIntentRef == "" {
		return nil, errs.NewValueIsRequiredError("payment intent")
	}
	return r.first(ctx, "payment intent", paymentIntentRef, r.db.
		Where("payment_intent_ref = ? AND transaction_type = ?", paymentIntentRef, int(payment.CustomerDeduction)))
}

func (r *GormPaymentRepository) FindByCard(ctx context.Context, cardRef string) (*payment.Entry, error) {
	cardRef = strings.TrimSpace(cardRef)
	if cardRef == "" {
		return nil, errs.NewValueIsRequiredError("card")
	}
	return r.first(ctx, "card", cardRef, r.db.
		Where("card_ref = ? AND transaction_type = ?", cardRef, int(payment.CustomerDeduction)).
		Order("created_at DESC"))
}

func (r *GormPaymentRepository) first(ctx context.Context, param, id string, scope *gorm.DB) (*payment.Entry, error) {
	var dto EntryDTO
	if err := scope.WithContext(ctx).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}
	return toDomain(dto)
}

// ClaimTransfer flips transferred to true for a completed deduction.
func (r *GormPaymentRepository) ClaimTransfer(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&EntryDTO{}).
		Where("id = ? AND payment_transferred_status = ? AND transaction_type = ? AND status = ?",
			id.Bytes(), false, int(payment.CustomerDeduction), int(payment.Completed)).
		Update("payment_transferred_status", true)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}
	return false, r.ensureExists(ctx, id)
}

func (r *GormPaymentRepository) ReleaseTransfer(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&EntryDTO{}).
		Where("id = ?", id.Bytes()).
		Update("payment_transferred_status", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("payment entry", id.String())
	}
	return nil
}

// Resolve writes the final outcome of a pending entry.
func (r *GormPaymentRepository) Resolve(ctx context.Context, entry *payment.Entry) (bool, error) {
	if err := entry.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(entry)
	result := r.db.WithContext(ctx).Model(&EntryDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(payment.Pending)).
		Updates(map[string]any{
			"status":             dto.Status,
			"payment_intent_ref": dto.PaymentIntentRef,
			"charge_ref":         dto.ChargeRef,
		})
	if result.Error != nil {
		if pgerrs.IsUniqueViolation(result.Error, "ux_payments_intent") {
			return false, errs.NewIllegalTransitionErrorWithCause(
				ErrIntentAlreadyRecorded.Action, ErrIntentAlreadyRecorded.Reason, result.Error)
		}
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, r.ensureExists(ctx, entry.ID())
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return true, nil
}

func (r *GormPaymentRepository) ensureExists(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&EntryDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("payment entry", id.String())
	}
	return nil
}

func (r *GormPaymentRepository) FindPendingDeductions(
	ctx context.Context, olderThan time.Time, limit int,
) ([]*payment.Entry, error) {
	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("transaction_type = ? AND status = ? AND created_at <= ?",
			int(payment.CustomerDeduction), int(payment.Pending), olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormPaymentRepository) FindUntransferredDeductions(ctx context.Context, limit int) ([]*payment.Entry, error) {
	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("transaction_type = ? AND status = ? AND payment_transferred_status = ?",
			int(payment.CustomerDeduction), int(payment.Completed), false).
		Order("created_at ASC").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}
