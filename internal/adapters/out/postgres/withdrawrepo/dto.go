// Package withdrawrepo persists driver payouts.
package withdrawrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

type WithdrawDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID    uuid.UUID `gorm:"type:uuid;index"`
	AmountCents int64
	Destination string
	PayoutRef   string `gorm:"index"`
	Status      int
	CreatedAt   time.Time
}

func (WithdrawDTO) TableName() string {
	return "withdraws"
}

func fromDomain(w *payment.Withdraw) WithdrawDTO {
	return WithdrawDTO{
		ID:          w.ID().Bytes(),
		DriverID:    w.DriverID().Bytes(),
		AmountCents: w.Amount().Cents(),
		Destination: w.Destination(),
		PayoutRef:   w.PayoutRef(),
		Status:      int(w.Status()),
		CreatedAt:   w.CreatedAt(),
	}
}

func toDomain(dto WithdrawDTO) (*payment.Withdraw, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.AmountCents)
	if err != nil {
		return nil, err
	}
	return payment.RestoreWithdraw(id, driverID, amount, dto.Destination, dto.PayoutRef,
		payment.WithdrawStatus(dto.Status), dto.CreatedAt)
}
