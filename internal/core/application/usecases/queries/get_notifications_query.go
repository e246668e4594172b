package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 200
)

var ErrGetNotificationsQueryIsNotConstructed = errors.New(
	"GetNotificationsQuery must be created via NewGetNotificationsQuery constructor",
)

// GetNotificationsQuery reads the newest entries of a user's inbox.
// A zero limit means DefaultNotificationLimit.
type GetNotificationsQuery struct {
	userID kernel.UUID
	limit  int

	guard guard.ConstructorGuard
}

func NewGetNotificationsQuery(userID kernel.UUID, limit int) (GetNotificationsQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetNotificationsQuery{}, err
	}
	if limit == 0 {
		limit = DefaultNotificationLimit
	}
	if limit < 1 || limit > MaxNotificationLimit {
		return GetNotificationsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxNotificationLimit)
	}
	return GetNotificationsQuery{userID: userID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetNotificationsQueryIsNotConstructed)
}

func (q GetNotificationsQuery) UserID() kernel.UUID { return q.userID }
func (q GetNotificationsQuery) Limit() int          { return q.limit }
