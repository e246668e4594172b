package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) PublishWithContext(
	_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing,
) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestBroker_RoutesByEventName(t *testing.T) {
	ch := &fakeChannel{}
	broker := newBroker(ch, "marketplace.events")

	event := job.DeliveryCompleted{
		JobID:       kernel.NewUUID(),
		OrderNumber: 1003,
		CustomerID:  kernel.NewUUID(),
		DriverID:    kernel.NewUUID(),
		At:          time.Now().UTC(),
	}
	notifications := Notifications(event)
	require.NoError(t, broker.Deliver(context.Background(), event, notifications))

	require.Len(t, ch.sent, 2)
	for i, p := range ch.sent {
		assert.Equal(t, "marketplace.events", p.exchange)
		assert.Equal(t, job.EventDeliveryCompleted, p.key)
		assert.Equal(t, amqp.Persistent, p.msg.DeliveryMode)
		assert.Equal(t, notifications[i].ID, p.msg.MessageId)

		var msg Message
		require.NoError(t, json.Unmarshal(p.msg.Body, &msg))
		assert.Equal(t, notifications[i].RecipientID.String(), msg.RecipientID)
	}
}

func TestBroker_ReportsPublishFailure(t *testing.T) {
	broker := newBroker(&fakeChannel{err: errors.New("channel closed")}, "x")
	event := job.DriverApplied{CustomerID: kernel.NewUUID(), At: time.Now()}

	err := broker.Deliver(context.Background(), event, Notifications(event))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}
