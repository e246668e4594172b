package queries

import (
	"context"

	"marketplace/internal/core/ports"
)

type GetNotificationsQueryHandler struct {
	inbox ports.NotificationInbox
}

func NewGetNotificationsQueryHandler(inbox ports.NotificationInbox) GetNotificationsQueryHandler {
	return GetNotificationsQueryHandler{inbox: inbox}
}

func (h GetNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetNotificationsQuery,
) ([]ports.Notification, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.inbox.List(ctx, query.UserID(), query.Limit())
}
