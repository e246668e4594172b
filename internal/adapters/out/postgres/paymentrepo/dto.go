// Package paymentrepo persists the settlement ledger.
package paymentrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// EntryDTO is one ledger row. Payment intent references are unique among
// customer deductions, which keeps a retried charge from being booked twice.
type EntryDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID  `gorm:"type:uuid;index"`
	JobID            uuid.UUID  `gorm:"type:uuid;index"`
	SourceEntryID    *uuid.UUID `gorm:"type:uuid;index"`
	AmountCents      int64
	TransactionType  int `gorm:"index"`
	IsTip            bool
	Status           int    `gorm:"index"`
	Transferred      bool   `gorm:"column:payment_transferred_status"`
	CardRef          string `gorm:"index"`
	PaymentIntentRef string `gorm:"uniqueIndex:ux_payments_intent,where:transaction_type = 1 AND payment_intent_ref <> ''"`
	ChargeRef        string
	TransferRef      string
	IdempotencyKey   string
	CreatedAt        time.Time `gorm:"index"`
}

func (EntryDTO) TableName() string {
	return "payments"
}

func fromDomain(entry *payment.Entry) EntryDTO {
	s := entry.Snapshot()

	var source *uuid.UUID
	if s.SourceEntryID != nil {
		raw := s.SourceEntryID.Bytes()
		source = &raw
	}

	return EntryDTO{
		ID:               s.ID.Bytes(),
		UserID:           s.UserID.Bytes(),
		JobID:            s.JobID.Bytes(),
		SourceEntryID:    source,
		AmountCents:      s.Amount.Cents(),
		TransactionType:  int(s.TransactionType),
		IsTip:            s.IsTip,
		Status:           int(s.Status),
		Transferred:      s.Transferred,
		CardRef:          s.Refs.CardRef,
		PaymentIntentRef: s.Refs.PaymentIntentRef,
		ChargeRef:        s.Refs.ChargeRef,
		TransferRef:      s.Refs.TransferRef,
		IdempotencyKey:   s.Refs.IdempotencyKey,
		CreatedAt:        s.CreatedAt,
	}
}

func toDomain(dto EntryDTO) (*payment.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	jobID, err := kernel.UUIDFromBytes(dto.JobID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.AmountCents)
	if err != nil {
		return nil, err
	}

	var source *kernel.UUID
	if dto.SourceEntryID != nil {
		sID, sourceErr := kernel.UUIDFromBytes((*dto.SourceEntryID)[:])
		if sourceErr != nil {
			return nil, sourceErr
		}
		source = &sID
	}

	return payment.RestoreEntry(payment.EntrySnapshot{
		ID:              id,
		UserID:          userID,
		JobID:           jobID,
		SourceEntryID:   source,
		Amount:          amount,
		TransactionType: payment.TransactionType(dto.TransactionType),
		IsTip:           dto.IsTip,
		Status:          payment.Status(dto.Status),
		Transferred:     dto.Transferred,
		Refs: payment.Refs{
			CardRef:          dto.CardRef,
			PaymentIntentRef: dto.PaymentIntentRef,
			ChargeRef:        dto.ChargeRef,
			TransferRef:      dto.TransferRef,
			IdempotencyKey:   dto.IdempotencyKey,
		},
		CreatedAt: dto.CreatedAt,
	})
}

func toDomainList(dtos []EntryDTO) ([]*payment.Entry, error) {
	entries := make([]*payment.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
