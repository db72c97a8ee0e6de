package payment

import (
	"context"
	"testing"

	"prank-kart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedProcessor_Charge(t *testing.T) {
	p := NewSimulatedProcessor([]string{"UPI", "card", "cod"}, zerolog.Nop())

	tests := []struct {
		name        string
		method      string
		amount      int
		expected    model.PaymentStatus
		expectError bool
	}{
		{name: "UPI completes", method: "upi", amount: 950, expected: model.PaymentCompleted},
		{name: "Method is case insensitive", method: " Card ", amount: 10, expected: model.PaymentCompleted},
		{name: "Cash on delivery stays pending", method: "cod", amount: 950, expected: model.PaymentPending},
		{name: "Unknown method fails", method: "crypto", amount: 950, expected: model.PaymentFailed, expectError: true},
		{name: "Negative amount fails", method: "upi", amount: -1, expected: model.PaymentFailed, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Charge(context.Background(), tt.method, tt.amount)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrPaymentFailed)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, res.Status)
		})
	}
}

func TestSimulatedProcessor_CancelledContext(t *testing.T) {
	p := NewSimulatedProcessor([]string{"upi"}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Charge(ctx, "upi", 100)
	assert.ErrorIs(t, err, context.Canceled)
}
