package stripe

import (
	"testing"
	"time"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testSecret = "whsec_test"

func signed(t *testing.T, payload string) ([]byte, string) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return sp.Payload, sp.Header
}

func TestParse_PaymentIntentSucceeded(t *testing.T) {
	payload, header := signed(t, `{"id":"evt_1","object":"event","type":"payment_intent.succeeded",`+
		`"data":{"object":{"id":"pi_1","object":"payment_intent","status":"succeeded",`+
		`"latest_charge":"ch_1","payment_method":"pm_1"}}}`)

	event, err := NewWebhookParser(testSecret).Parse(payload, header)

	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, ports.WebhookChargeSucceeded, event.Kind)
	assert.Equal(t, "pi_1", event.PaymentIntentRef)
	assert.Equal(t, "ch_1", event.ChargeRef)
	assert.Equal(t, "pm_1", event.CardRef)
}

func TestParse_ChargeUpdated(t *testing.T) {
	payload, header := signed(t, `{"id":"evt_2","object":"event","type":"charge.updated",`+
		`"data":{"object":{"id":"ch_2","object":"charge","status":"succeeded","paid":true,`+
		`"payment_intent":"pi_2","payment_method":"pm_2"}}}`)

	event, err := NewWebhookParser(testSecret).Parse(payload, header)

	require.NoError(t, err)
	assert.Equal(t, ports.WebhookChargeSucceeded, event.Kind)
	assert.Equal(t, "pi_2", event.PaymentIntentRef)
	assert.Equal(t, "pm_2", event.CardRef)
}

func TestParse_AccountUpdated(t *testing.T) {
	payload, header := signed(t, `{"id":"evt_3","object":"event","type":"account.updated",`+
		`"data":{"object":{"id":"acct_3","object":"account","details_submitted":true}}}`)

	event, err := NewWebhookParser(testSecret).Parse(payload, header)

	require.NoError(t, err)
	assert.Equal(t, ports.WebhookAccountUpdated, event.Kind)
	assert.Equal(t, "acct_3", event.AccountRef)
	assert.True(t, event.AccountReady)
}

func TestParse_UnhandledTypeIsIgnored(t *testing.T) {
	payload, header := signed(t, `{"id":"evt_4","object":"event","type":"customer.created",`+
		`"data":{"object":{"id":"cus_4","object":"customer"}}}`)

	event, err := NewWebhookParser(testSecret).Parse(payload, header)

	require.NoError(t, err)
	assert.Equal(t, ports.WebhookIgnored, event.Kind)
}

func TestParse_BadSignature(t *testing.T) {
	payload, _ := signed(t, `{"id":"evt_5","object":"event","type":"charge.updated","data":{"object":{}}}`)

	_, err := NewWebhookParser(testSecret).Parse(payload, "t=1,v1=deadbeef")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
