package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type staticChecker struct{ active bool }

func (c staticChecker) IsActive(context.Context, string) bool { return c.active }

func TestGate_DenialsIncrementCounter(t *testing.T) {
	gate := NewGate(staticChecker{active: false}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	signInBefore := testutil.ToFloat64(deniedTotal.WithLabelValues(RedirectSignIn))
	pricingBefore := testutil.ToFloat64(deniedTotal.WithLabelValues(RedirectPricing))

	gate.Authorize(context.Background(), "")
	gate.Authorize(context.Background(), "acc-123")
	gate.Authorize(context.Background(), "acc-123")

	assert.Equal(t, signInBefore+1, testutil.ToFloat64(deniedTotal.WithLabelValues(RedirectSignIn)))
	assert.Equal(t, pricingBefore+2, testutil.ToFloat64(deniedTotal.WithLabelValues(RedirectPricing)))
}

func TestGate_AllowDoesNotIncrementCounter(t *testing.T) {
	gate := NewGate(staticChecker{active: true}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	signInBefore := testutil.ToFloat64(deniedTotal.WithLabelValues(RedirectSignIn))
	pricingBefore := testutil.ToFloat64(deniedTotal.WithLabelValues(RedirectPricing))

	got := gate.Authorize(context.Background(), "acc-123")
	assert.True(t, got.Allowed)

	assert.Equal(t, signInBefore, testutil.ToFloat64(deniedTotal.WithLabelValues(RedirectSignIn)))
	assert.Equal(t, pricingBefore, testutil.ToFloat64(deniedTotal.WithLabelValues(RedirectPricing)))
}
