// Package stripe implements the payment processor port on top of Stripe:
// off-session charges against a customer's default card, Connect transfers
// and payouts for drivers, and webhook verification.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const DefaultCurrency = "usd"

type Config struct {
	SecretKey string
	Currency  string
	// Backend overrides the API backend, e.g. to point at a local server.
	Backend stripeapi.Backend
}

// Processor implements ports.PaymentProcessor.
type Processor struct {
	api      *client.API
	currency string
}

func NewProcessor(cfg Config) *Processor {
	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	var backends *stripeapi.Backends
	if cfg.Backend != nil {
		backends = &stripeapi.Backends{API: cfg.Backend, Connect: cfg.Backend, Uploads: cfg.Backend}
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, backends)
	return &Processor{api: api, currency: currency}
}

// DefaultPaymentMethod prefers the invoice default and falls back to the
// first saved card.
func (p *Processor) DefaultPaymentMethod(ctx context.Context, customerRef string) (string, error) {
	params := &stripeapi.CustomerParams{}
	params.Context = ctx
	customer, err := p.api.Customers.Get(customerRef, params)
	if err != nil {
		return "", fmt.Errorf("failed to load customer: %w", err)
	}
	if customer.InvoiceSettings != nil && customer.InvoiceSettings.DefaultPaymentMethod != nil {
		return customer.InvoiceSettings.DefaultPaymentMethod.ID, nil
	}

	listParams := &stripeapi.PaymentMethodListParams{
		Customer: stripeapi.String(customerRef),
		Type:     stripeapi.String(string(stripeapi.PaymentMethodTypeCard)),
	}
	listParams.Context = ctx
	listParams.Limit = stripeapi.Int64(1)
	iter := p.api.PaymentMethods.List(listParams)
	if iter.Next() {
		return iter.PaymentMethod().ID, nil
	}
	if err = iter.Err(); err != nil {
		return "", fmt.Errorf("failed to list payment methods: %w", err)
	}
	return "", ports.ErrNoPaymentMethod
}

// Charge creates and confirms an off-session payment intent. A declined
// card is a ChargeFailed result, not an error.
func (p *Processor) Charge(ctx context.Context, req ports.ChargeRequest) (ports.ChargeResult, error) {
	params := &stripeapi.PaymentIntentParams{
		Amount:        stripeapi.Int64(req.Amount.Cents()),
		Currency:      stripeapi.String(p.currency),
		Customer:      stripeapi.String(req.CustomerRef),
		PaymentMethod: stripeapi.String(req.PaymentMethodRef),
		Confirm:       stripeapi.Bool(true),
		OffSession:    stripeapi.Bool(true),
		Description:   stripeapi.String(req.Description),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripeapi.String(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return classifyChargeError(err)
	}
	return chargeResult(intent), nil
}

func (p *Processor) RetrieveCharge(ctx context.Context, paymentIntentRef string) (ports.ChargeResult, error) {
	params := &stripeapi.PaymentIntentParams{}
	params.Context = ctx
	intent, err := p.api.PaymentIntents.Get(paymentIntentRef, params)
	if err != nil {
		return ports.ChargeResult{}, unknownUnlessRejected(err)
	}
	return chargeResult(intent), nil
}

func (p *Processor) Transfer(ctx context.Context, req ports.TransferRequest) (ports.TransferResult, error) {
	params := &stripeapi.TransferParams{
		Amount:      stripeapi.Int64(req.Amount.Cents()),
		Currency:    stripeapi.String(p.currency),
		Destination: stripeapi.String(req.DestinationAccount),
	}
	params.Context = ctx
	if req.SourceChargeRef != "" {
		params.SourceTransaction = stripeapi.String(req.SourceChargeRef)
	}
	if req.TransferGroup != "" {
		params.TransferGroup = stripeapi.String(req.TransferGroup)
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripeapi.String(req.IdempotencyKey)
	}

	transfer, err := p.api.Transfers.New(params)
	if err != nil {
		return ports.TransferResult{}, unknownUnlessRejected(err)
	}
	return ports.TransferResult{TransferRef: transfer.ID}, nil
}

// Payout instantly moves money from the driver's connected balance to the
// external account given as Destination.
func (p *Processor) Payout(ctx context.Context, req ports.PayoutRequest) (ports.PayoutResult, error) {
	params := &stripeapi.PayoutParams{
		Amount:   stripeapi.Int64(req.Amount.Cents()),
		Currency: stripeapi.String(p.currency),
		Method:   stripeapi.String(string(stripeapi.PayoutMethodInstant)),
	}
	params.Context = ctx
	if req.Destination != "" {
		params.Destination = stripeapi.String(req.Destination)
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripeapi.String(req.IdempotencyKey)
	}
	params.SetStripeAccount(req.AccountRef)

	payout, err := p.api.Payouts.New(params)
	if err != nil {
		return ports.PayoutResult{}, unknownUnlessRejected(err)
	}
	return ports.PayoutResult{PayoutRef: payout.ID, Status: string(payout.Status)}, nil
}

// Balance sums the connected account's balances in the configured currency.
func (p *Processor) Balance(ctx context.Context, accountRef string) (ports.Balance, error) {
	params := &stripeapi.BalanceParams{}
	params.Context = ctx
	params.SetStripeAccount(accountRef)

	balance, err := p.api.Balance.Get(params)
	if err != nil {
		return ports.Balance{}, fmt.Errorf("failed to read balance: %w", err)
	}

	available, err := p.sum(balance.Available)
	if err != nil {
		return ports.Balance{}, err
	}
	pending, err := p.sum(balance.Pending)
	if err != nil {
		return ports.Balance{}, err
	}
	return ports.Balance{Available: available, Pending: pending}, nil
}

func (p *Processor) sum(amounts []*stripeapi.Amount) (kernel.Money, error) {
	var cents int64
	for _, a := range amounts {
		if a != nil && strings.EqualFold(string(a.Currency), p.currency) {
			cents += a.Amount
		}
	}
	if cents < 0 {
		cents = 0
	}
	return kernel.NewMoney(cents)
}

func (p *Processor) CreateCustomer(ctx context.Context, req ports.CustomerRequest) (string, error) {
	params := &stripeapi.CustomerParams{
		Name:  stripeapi.String(req.Name),
		Email: stripeapi.String(req.Email),
	}
	params.Context = ctx
	if req.Phone != "" {
		params.Phone = stripeapi.String(req.Phone)
	}
	customer, err := p.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return customer.ID, nil
}

func (p *Processor) AttachCard(ctx context.Context, customerRef, paymentMethodRef string, makeDefault bool) error {
	attach := &stripeapi.PaymentMethodAttachParams{Customer: stripeapi.String(customerRef)}
	attach.Context = ctx
	if _, err := p.api.PaymentMethods.Attach(paymentMethodRef, attach); err != nil {
		return fmt.Errorf("failed to attach card: %w", err)
	}
	if !makeDefault {
		return nil
	}

	update := &stripeapi.CustomerParams{
		InvoiceSettings: &stripeapi.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripeapi.String(paymentMethodRef),
		},
	}
	update.Context = ctx
	if _, err := p.api.Customers.Update(customerRef, update); err != nil {
		return fmt.Errorf("failed to set default card: %w", err)
	}
	return nil
}

// CreateConnectedAccount opens an Express account able to receive transfers.
func (p *Processor) CreateConnectedAccount(ctx context.Context, email string) (string, error) {
	params := &stripeapi.AccountParams{
		Type:  stripeapi.String(string(stripeapi.AccountTypeExpress)),
		Email: stripeapi.String(email),
		Capabilities: &stripeapi.AccountCapabilitiesParams{
			Transfers: &stripeapi.AccountCapabilitiesTransfersParams{Requested: stripeapi.Bool(true)},
		},
	}
	params.Context = ctx
	account, err := p.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create connected account: %w", err)
	}
	return account.ID, nil
}

func (p *Processor) CreateOnboardingLink(ctx context.Context, accountRef, refreshURL, returnURL string) (string, error) {
	params := &stripeapi.AccountLinkParams{
		Account:    stripeapi.String(accountRef),
		RefreshURL: stripeapi.String(refreshURL),
		ReturnURL:  stripeapi.String(returnURL),
		Type:       stripeapi.String(string(stripeapi.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx
	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create onboarding link: %w", err)
	}
	return link.URL, nil
}

// AccountReady reports whether onboarding details have been submitted.
func (p *Processor) AccountReady(ctx context.Context, accountRef string) (bool, error) {
	params := &stripeapi.AccountParams{}
	params.Context = ctx
	account, err := p.api.Accounts.GetByID(accountRef, params)
	if err != nil {
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	return account.DetailsSubmitted, nil
}

func chargeResult(intent *stripeapi.PaymentIntent) ports.ChargeResult {
	result := ports.ChargeResult{PaymentIntentRef: intent.ID}
	if intent.LatestCharge != nil {
		result.ChargeRef = intent.LatestCharge.ID
	}

	switch intent.Status {
	case stripeapi.PaymentIntentStatusSucceeded:
		result.Status = ports.ChargeSucceeded
	case stripeapi.PaymentIntentStatusCanceled,
		stripeapi.PaymentIntentStatusRequiresPaymentMethod,
		stripeapi.PaymentIntentStatusRequiresAction:
		result.Status = ports.ChargeFailed
		result.FailureMessage = "payment was not completed: " + string(intent.Status)
		if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
			result.FailureMessage = intent.LastPaymentError.Msg
		}
	default:
		result.Status = ports.ChargeProcessing
	}
	return result
}

// classifyChargeError separates a decline, which has a definite outcome,
// from failures where the charge may or may not have gone through.
func classifyChargeError(err error) (ports.ChargeResult, error) {
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripeapi.ErrorTypeCard {
		result := ports.ChargeResult{Status: ports.ChargeFailed, FailureMessage: stripeErr.Msg}
		if stripeErr.PaymentIntent != nil {
			result.PaymentIntentRef = stripeErr.PaymentIntent.ID
			if stripeErr.PaymentIntent.LatestCharge != nil {
				result.ChargeRef = stripeErr.PaymentIntent.LatestCharge.ID
			}
		}
		return result, nil
	}
	return ports.ChargeResult{}, unknownUnlessRejected(err)
}

// unknownUnlessRejected wraps ports.ErrOutcomeUnknown around every error
// except a 4xx answer, which means Stripe refused the request.
func unknownUnlessRejected(err error) error {
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500 {
		return err
	}
	return fmt.Errorf("%w: %w", ports.ErrOutcomeUnknown, err)
}
