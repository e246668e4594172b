// Package userrepo persists user accounts.
package userrepo

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"

	"github.com/google/uuid"
)

type UserDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role                int       `gorm:"not null"`
	Name                string    `gorm:"not null"`
	Email               string    `gorm:"uniqueIndex:ux_users_email;not null"`
	Phone               string
	PhotoRef            string
	PaymentAccountID    *string `gorm:"uniqueIndex:ux_users_payment_account"`
	PaymentAccountReady bool
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(aggregate *user.User) UserDTO {
	dto := UserDTO{
		ID:                  aggregate.ID().Bytes(),
		Role:                int(aggregate.Role()),
		Name:                aggregate.Name(),
		Email:               aggregate.Email(),
		Phone:               aggregate.Phone(),
		PhotoRef:            aggregate.PhotoRef(),
		PaymentAccountReady: aggregate.PaymentAccountReady(),
	}
	if accountID, ok := aggregate.PaymentAccountID(); ok {
		dto.PaymentAccountID = &accountID
	}
	return dto
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var accountID string
	if dto.PaymentAccountID != nil {
		accountID = *dto.PaymentAccountID
	}

	return user.RestoreUser(id, user.Role(dto.Role), dto.Name, dto.Email, dto.Phone,
		dto.PhotoRef, accountID, dto.PaymentAccountReady)
}
