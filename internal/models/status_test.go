package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderPending.CanTransitionTo(OrderProcessing))
	assert.True(t, OrderProcessing.CanTransitionTo(OrderShipped))
	assert.True(t, OrderShipped.CanTransitionTo(OrderCompleted))

	// Cancellation is reachable from every non-terminal state.
	for _, from := range []OrderStatus{OrderPending, OrderProcessing, OrderShipped} {
		assert.True(t, from.CanTransitionTo(OrderCancelled), "from %s", from)
	}

	// No skipping ahead, no going back.
	assert.False(t, OrderPending.CanTransitionTo(OrderShipped))
	assert.False(t, OrderPending.CanTransitionTo(OrderCompleted))
	assert.False(t, OrderShipped.CanTransitionTo(OrderProcessing))

	// Terminal states allow nothing out.
	for _, terminal := range []OrderStatus{OrderCompleted, OrderCancelled} {
		assert.True(t, terminal.Terminal())
		for _, next := range []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("delivered").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentUnpaid.CanTransitionTo(PaymentPaid))
	assert.True(t, PaymentUnpaid.CanTransitionTo(PaymentFailed))
	assert.True(t, PaymentPaid.CanTransitionTo(PaymentRefunded))

	// Refunds only follow a successful payment.
	assert.False(t, PaymentUnpaid.CanTransitionTo(PaymentRefunded))
	assert.False(t, PaymentFailed.CanTransitionTo(PaymentRefunded))

	for _, terminal := range []PaymentStatus{PaymentFailed, PaymentRefunded} {
		for _, next := range []PaymentStatus{PaymentUnpaid, PaymentPaid, PaymentFailed, PaymentRefunded} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestPaymentStatusValid(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentUnpaid, PaymentPaid, PaymentFailed, PaymentRefunded} {
		assert.True(t, s.Valid())
	}
	assert.False(t, PaymentStatus("chargeback").Valid())
}
