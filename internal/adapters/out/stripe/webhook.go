package stripe

import (
	"encoding/json"
	"fmt"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// WebhookParser implements ports.WebhookParser with the endpoint's signing
// secret.
type WebhookParser struct {
	secret string
}

func NewWebhookParser(secret string) WebhookParser {
	return WebhookParser{secret: secret}
}

// Parse verifies the Stripe-Signature header and reduces the event to what
// settlement needs. Unhandled event types come back as WebhookIgnored.
func (p WebhookParser) Parse(payload []byte, signature string) (ports.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return ports.WebhookEvent{}, errs.NewValueIsInvalidErrorWithCause("webhook signature", err)
	}

	out := ports.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil {
		return out, nil
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed", "payment_intent.canceled":
		var intent stripeapi.PaymentIntent
		if err = json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return ports.WebhookEvent{}, decodeError(event.Type, err)
		}
		out.Kind = ports.WebhookChargeFailed
		if event.Type == "payment_intent.succeeded" {
			out.Kind = ports.WebhookChargeSucceeded
		}
		out.PaymentIntentRef = intent.ID
		if intent.LatestCharge != nil {
			out.ChargeRef = intent.LatestCharge.ID
		}
		if intent.PaymentMethod != nil {
			out.CardRef = intent.PaymentMethod.ID
		}

	case "charge.succeeded", "charge.updated", "charge.failed":
		var charge stripeapi.Charge
		if err = json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return ports.WebhookEvent{}, decodeError(event.Type, err)
		}
		switch {
		case charge.Status == stripeapi.ChargeStatusSucceeded && charge.Paid:
			out.Kind = ports.WebhookChargeSucceeded
		case charge.Status == stripeapi.ChargeStatusFailed:
			out.Kind = ports.WebhookChargeFailed
		default:
			return out, nil
		}
		out.ChargeRef = charge.ID
		out.CardRef = charge.PaymentMethod
		if charge.PaymentIntent != nil {
			out.PaymentIntentRef = charge.PaymentIntent.ID
		}

	case "account.updated":
		var account stripeapi.Account
		if err = json.Unmarshal(event.Data.Raw, &account); err != nil {
			return ports.WebhookEvent{}, decodeError(event.Type, err)
		}
		out.Kind = ports.WebhookAccountUpdated
		out.AccountRef = account.ID
		out.AccountReady = account.DetailsSubmitted
	}
	return out, nil
}

func decodeError(eventType stripeapi.EventType, err error) error {
	return errs.NewValueIsInvalidErrorWithCause("webhook payload", fmt.Errorf("%s: %w", eventType, err))
}
