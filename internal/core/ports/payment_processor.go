package ports

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
)

// ErrOutcomeUnknown is returned by a PaymentProcessor when a call was sent
// but its result never came back, for instance on a timeout. The charge may
// or may not have happened.
var ErrOutcomeUnknown = errors.New("payment processor outcome is unknown")

// ErrNoPaymentMethod is returned when a customer has no default card on file.
var ErrNoPaymentMethod = errors.New("customer has no default payment method")

type ChargeStatus int

const (
	ChargeProcessing ChargeStatus = iota
	ChargeSucceeded
	ChargeFailed
)

type ChargeRequest struct {
	CustomerRef      string
	PaymentMethodRef string
	Amount           kernel.Money
	Description      string
	IdempotencyKey   string
	Metadata         map[string]string
}

// ChargeResult describes a confirmed payment intent. A declined charge is
// reported through Status, not as an error.
type ChargeResult struct {
	PaymentIntentRef string
	ChargeRef        string
	Status           ChargeStatus
	FailureMessage   string
}

type TransferRequest struct {
	DestinationAccount string
	Amount             kernel.Money
	// SourceChargeRef ties the transfer to the charge that funds it.
	SourceChargeRef string
	TransferGroup   string
	IdempotencyKey  string
}

type TransferResult struct {
	TransferRef string
}

type PayoutRequest struct {
	AccountRef     string
	Destination    string
	Amount         kernel.Money
	IdempotencyKey string
}

type PayoutResult struct {
	PayoutRef string
	Status    string
}

type Balance struct {
	Available kernel.Money
	Pending   kernel.Money
}

type CustomerRequest struct {
	Name  string
	Email string
	Phone string
}

// PaymentProcessor is the third-party processor holding customer cards and
// driver connected accounts. Every call is bounded by ctx.
type PaymentProcessor interface {
	DefaultPaymentMethod(ctx context.Context, customerRef string) (string, error)
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	RetrieveCharge(ctx context.Context, paymentIntentRef string) (ChargeResult, error)
	Transfer(ctx context.Context, req TransferRequest) (TransferResult, error)
	Payout(ctx context.Context, req PayoutRequest) (PayoutResult, error)
	Balance(ctx context.Context, accountRef string) (Balance, error)

	CreateCustomer(ctx context.Context, req CustomerRequest) (string, error)
	AttachCard(ctx context.Context, customerRef, paymentMethodRef string, makeDefault bool) error
	CreateConnectedAccount(ctx context.Context, email string) (string, error)
	CreateOnboardingLink(ctx context.Context, accountRef, refreshURL, returnURL string) (string, error)
	AccountReady(ctx context.Context, accountRef string) (bool, error)
}

// WebhookEventKind is the part of a processor webhook this service reacts to.
type WebhookEventKind int

const (
	WebhookIgnored WebhookEventKind = iota
	WebhookChargeSucceeded
	WebhookChargeFailed
	WebhookAccountUpdated
)

// WebhookEvent is a verified processor notification reduced to what
// settlement needs.
type WebhookEvent struct {
	ID               string
	Type             string
	Kind             WebhookEventKind
	PaymentIntentRef string
	ChargeRef        string
	CardRef          string
	AccountRef       string
	AccountReady     bool
}

// WebhookParser verifies a webhook signature and decodes the payload.
type WebhookParser interface {
	Parse(payload []byte, signature string) (WebhookEvent, error)
}
