package http

import (
	"io"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/generated/servers"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const maxWebhookBody = 1 << 16

// ReceiveWebhook handles POST /webhook. Only a payload that fails signature
// verification is rejected; processing errors are logged and acknowledged so
// the processor does not retry an event that cannot succeed.
func (s *Server) ReceiveWebhook(ctx echo.Context, params servers.ReceiveWebhookParams) error {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookBody))
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("webhook payload", err))
	}

	event, err := s.webhooks.Parse(payload, deref(params.StripeSignature))
	if err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "webhook rejected", "error", err)
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("webhook signature", err))
	}

	log := s.logger.With("event_id", event.ID, "event_type", event.Type)

	cmd, err := commands.NewReconcileWebhookCommand(event)
	if err != nil {
		log.WarnContext(ctx.Request().Context(), "webhook ignored", "error", err)
		return respond(ctx, http.StatusOK, "Event ignored", nil)
	}
	result, err := s.commands.ReconcileWebhook.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		log.ErrorContext(ctx.Request().Context(), "webhook processing failed", "error", err)
		return respond(ctx, http.StatusOK, "Event received", nil)
	}

	log.InfoContext(ctx.Request().Context(), "webhook processed",
		"resolved", result.Resolved,
		"transferred", result.Transferred)
	return respond(ctx, http.StatusOK, "Event received", nil)
}
