package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetUserQueryIsNotConstructed = errors.New(
	"GetUserQuery must be created via NewGetUserQuery constructor",
)

// GetUserQuery reads the caller's own profile.
type GetUserQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetUserQuery(userID kernel.UUID) (GetUserQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetUserQuery{}, err
	}
	return GetUserQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetUserQuery) Validate() error {
	return q.guard.Validate(ErrGetUserQueryIsNotConstructed)
}

func (q GetUserQuery) UserID() kernel.UUID {
	return q.userID
}

// GetUserQueryResponse carries review statistics for drivers only.
type GetUserQueryResponse struct {
	ID                   kernel.UUID
	Role                 string
	Name                 string
	Email                string
	Phone                string
	PhotoRef             string
	PaymentAccountLinked bool
	PaymentAccountReady  bool
	ReviewCount          int
	AverageRating        float64
}
