package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T, handler http.HandlerFunc) *Processor {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
		URL:               stripeapi.String(server.URL),
		MaxNetworkRetries: stripeapi.Int64(0),
		LeveledLogger:     &stripeapi.LeveledLogger{Level: stripeapi.LevelNull},
	})
	return NewProcessor(Config{SecretKey: "sk_test_123", Backend: backend})
}

func chargeRequest(t *testing.T) ports.ChargeRequest {
	t.Helper()
	amount, err := kernel.NewMoney(4000)
	require.NoError(t, err)
	return ports.ChargeRequest{
		CustomerRef:      "cus_1",
		PaymentMethodRef: "pm_1",
		Amount:           amount,
		Description:      "Delivery #1000",
		IdempotencyKey:   "job:1:deduction:0",
		Metadata:         map[string]string{"job_id": "1"},
	}
}

func TestCharge_Succeeded(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "job:1:deduction:0", r.Header.Get("Idempotency-Key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "4000", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "true", r.PostForm.Get("off_session"))
		assert.Equal(t, "true", r.PostForm.Get("confirm"))
		assert.Equal(t, "1", r.PostForm.Get("metadata[job_id]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","status":"succeeded","latest_charge":"ch_1"}`))
	})

	result, err := processor.Charge(context.Background(), chargeRequest(t))

	require.NoError(t, err)
	assert.Equal(t, ports.ChargeSucceeded, result.Status)
	assert.Equal(t, "pi_1", result.PaymentIntentRef)
	assert.Equal(t, "ch_1", result.ChargeRef)
}

func TestCharge_ProcessingIsNotFinal(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_3","object":"payment_intent","status":"processing"}`))
	})

	result, err := processor.Charge(context.Background(), chargeRequest(t))

	require.NoError(t, err)
	assert.Equal(t, ports.ChargeProcessing, result.Status)
	assert.Equal(t, "pi_3", result.PaymentIntentRef)
}

func TestCharge_DeclinedCardIsAFailedResult(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined",` +
			`"message":"Your card was declined.",` +
			`"payment_intent":{"id":"pi_2","object":"payment_intent","status":"requires_payment_method"}}}`))
	})

	result, err := processor.Charge(context.Background(), chargeRequest(t))

	require.NoError(t, err)
	assert.Equal(t, ports.ChargeFailed, result.Status)
	assert.Equal(t, "pi_2", result.PaymentIntentRef)
	assert.Equal(t, "Your card was declined.", result.FailureMessage)
}

func TestCharge_ServerErrorIsUnknownOutcome(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"boom"}}`))
	})

	_, err := processor.Charge(context.Background(), chargeRequest(t))

	require.ErrorIs(t, err, ports.ErrOutcomeUnknown)
}

func TestTransfer_InvalidRequestIsNotUnknown(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"insufficient funds"}}`))
	})
	amount, err := kernel.NewMoney(100)
	require.NoError(t, err)

	_, err = processor.Transfer(context.Background(), ports.TransferRequest{
		DestinationAccount: "acct_1",
		Amount:             amount,
		SourceChargeRef:    "ch_1",
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrOutcomeUnknown)
}

func TestPayout_IsInstantOnConnectedAccount(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payouts", r.URL.Path)
		assert.Equal(t, "acct_1", r.Header.Get("Stripe-Account"))
		assert.Equal(t, "withdraw:1", r.Header.Get("Idempotency-Key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "instant", r.PostForm.Get("method"))
		assert.Equal(t, "2500", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "ba_1", r.PostForm.Get("destination"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"po_1","object":"payout","status":"in_transit","method":"instant"}`))
	})
	amount, err := kernel.NewMoney(2500)
	require.NoError(t, err)

	result, err := processor.Payout(context.Background(), ports.PayoutRequest{
		AccountRef:     "acct_1",
		Destination:    "ba_1",
		Amount:         amount,
		IdempotencyKey: "withdraw:1",
	})

	require.NoError(t, err)
	assert.Equal(t, "po_1", result.PayoutRef)
	assert.Equal(t, "in_transit", result.Status)
}

func TestBalance_SumsConfiguredCurrency(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/balance", r.URL.Path)
		assert.Equal(t, "acct_9", r.Header.Get("Stripe-Account"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"balance",` +
			`"available":[{"amount":1200,"currency":"usd"},{"amount":99,"currency":"eur"}],` +
			`"pending":[{"amount":300,"currency":"usd"}]}`))
	})

	balance, err := processor.Balance(context.Background(), "acct_9")

	require.NoError(t, err)
	assert.Equal(t, int64(1200), balance.Available.Cents())
	assert.Equal(t, int64(300), balance.Pending.Cents())
}

func TestDefaultPaymentMethod_UsesInvoiceDefault(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/customers/cus_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cus_1","object":"customer",` +
			`"invoice_settings":{"default_payment_method":"pm_default"}}`))
	})

	ref, err := processor.DefaultPaymentMethod(context.Background(), "cus_1")

	require.NoError(t, err)
	assert.Equal(t, "pm_default", ref)
}

func TestDefaultPaymentMethod_NoCards(t *testing.T) {
	processor := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/customers/cus_2" {
			_, _ = w.Write([]byte(`{"id":"cus_2","object":"customer","invoice_settings":{}}`))
			return
		}
		assert.Equal(t, "/v1/payment_methods", r.URL.Path)
		_, _ = w.Write([]byte(`{"object":"list","data":[],"has_more":false,"url":"/v1/payment_methods"}`))
	})

	_, err := processor.DefaultPaymentMethod(context.Background(), "cus_2")

	require.ErrorIs(t, err, ports.ErrNoPaymentMethod)
}
