// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pool

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"stackshelf/internal/metrics"
)

// BreakerSettings configures the circuit breakers guarding the stores.
type BreakerSettings struct {
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval resets failure counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// MinRequests is the sample size needed before the breaker may trip.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
}

// DefaultBreakerSettings returns the production breaker policy.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

func newBreaker[T any](name string, s BreakerSettings) *gobreaker.CircuitBreaker[T] {
	metrics.BreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.FailureRatio
		},
		// Cancellation is the client going away, not the store failing.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

// execute runs fn through cb and records the outcome.
func execute[T any](cb *gobreaker.CircuitBreaker[T], fn func() (T, error)) (T, error) {
	result, err := cb.Execute(fn)
	switch {
	case err == nil:
		metrics.BreakerRequests.WithLabelValues(cb.Name(), "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.BreakerRequests.WithLabelValues(cb.Name(), "rejected").Inc()
	default:
		metrics.BreakerRequests.WithLabelValues(cb.Name(), "failure").Inc()
	}
	return result, err
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return 0
}
