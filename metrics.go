// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricComposed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "utlmail_composed_total",
			Help: "Number of composed messages.",
		},
		[]string{"kind"}, // "plain" or "multipart"
	)
	metricSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "utlmail_sent_total",
			Help: "Number of messages accepted by the transport.",
		},
	)
	metricFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "utlmail_failed_total",
			Help: "Number of messages that could not be sent.",
		},
		[]string{"reason"},
	)
	metricStreamed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "utlmail_streamed_bytes_total",
			Help: "Number of message bytes pulled from compositions by transports.",
		},
	)
)

// failureReason returns the metric label for a failed send.
func failureReason(err error) string {
	var sendErr *SendError
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrNoTransport):
		return "no_transport"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrOutOfMemory):
		return "out_of_memory"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &sendErr):
		if sendErr.Reason == ErrCanceled {
			return "canceled"
		}
		return "delivery"
	default:
		return "other"
	}
}

// compositionKind returns the metric label for a Composition.
func compositionKind(comp *Composition) string {
	if comp.IsMultipart() {
		return "multipart"
	}
	return "plain"
}
