// Package payment simulates payment confirmation at checkout. No gateway is
// contacted.
package payment

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"prank-kart/internal/model"

	"github.com/rs/zerolog"
)

// MethodCashOnDelivery is settled on delivery, so its payment stays pending.
const MethodCashOnDelivery = "cod"

// Result is the outcome of a charge.
type Result struct {
	Status model.PaymentStatus
}

// Processor confirms payment for an order amount.
type Processor interface {
	Charge(ctx context.Context, method string, amount int) (Result, error)
}

// simulatedProcessor accepts any configured method.
type simulatedProcessor struct {
	methods []string
	logger  zerolog.Logger
}

// NewSimulatedProcessor creates a processor that accepts the given methods.
func NewSimulatedProcessor(methods []string, logger zerolog.Logger) Processor {
	normalised := make([]string, 0, len(methods))
	for _, m := range methods {
		normalised = append(normalised, strings.ToLower(strings.TrimSpace(m)))
	}
	return &simulatedProcessor{
		methods: normalised,
		logger:  logger.With().Str("component", "payment").Logger(),
	}
}

// Charge reports a completed payment for accepted methods, pending for cash on
// delivery, and ErrPaymentFailed otherwise.
func (p *simulatedProcessor) Charge(ctx context.Context, method string, amount int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Status: model.PaymentFailed}, err
	}

	method = strings.ToLower(strings.TrimSpace(method))
	if !slices.Contains(p.methods, method) {
		p.logger.Warn().Str("method", method).Int("amount", amount).Msg("payment method not accepted")
		return Result{Status: model.PaymentFailed}, fmt.Errorf("%w: method %q not accepted", model.ErrPaymentFailed, method)
	}

	if amount < 0 {
		return Result{Status: model.PaymentFailed}, fmt.Errorf("%w: negative amount", model.ErrPaymentFailed)
	}

	status := model.PaymentCompleted
	if method == MethodCashOnDelivery {
		status = model.PaymentPending
	}

	p.logger.Info().Str("method", method).Int("amount", amount).Str("status", string(status)).Msg("payment confirmed")
	return Result{Status: status}, nil
}
