package commands

import (
	"errors"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrReconcileWebhookCommandIsNotConstructed = errors.New(
	"ReconcileWebhookCommand must be created via NewReconcileWebhookCommand constructor",
)

// ReconcileWebhookCommand carries a verified processor notification.
type ReconcileWebhookCommand struct {
	event ports.WebhookEvent

	guard guard.ConstructorGuard
}

func NewReconcileWebhookCommand(event ports.WebhookEvent) (ReconcileWebhookCommand, error) {
	if event.ID == "" {
		return ReconcileWebhookCommand{}, errs.NewValueIsRequiredError("event id")
	}
	return ReconcileWebhookCommand{
		event: event,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileWebhookCommand) Validate() error {
	return c.guard.Validate(ErrReconcileWebhookCommandIsNotConstructed)
}

func (c ReconcileWebhookCommand) Event() ports.WebhookEvent { return c.event }
