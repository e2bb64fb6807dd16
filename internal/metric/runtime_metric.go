// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// ActorTypeKey is the attribute carrying the actor type
	ActorTypeKey = attribute.Key("actor.type")
	// CallTypeKey is the attribute carrying the kind of invocation
	CallTypeKey = attribute.Key("actor.call_type")
	// MethodKey is the attribute carrying the invoked method
	MethodKey = attribute.Key("actor.method")
)

// RuntimeMetric defines the actor runtime instrumentation
type RuntimeMetric struct {
	// Specifies the total number of activations
	activationCount metric.Int64Counter
	// Specifies the total number of failed activations
	activationFailureCount metric.Int64Counter
	// Specifies the total number of deactivations
	deactivationCount metric.Int64Counter
	// Specifies the number of live actors
	activeCount metric.Int64UpDownCounter
	// Specifies the total number of invocations
	invocationCount metric.Int64Counter
	// Specifies the total number of failed invocations
	invocationFailureCount metric.Int64Counter
	// Specifies the invocation latency in milliseconds
	invocationDuration metric.Float64Histogram
}

// NewRuntimeMetric creates an instance of RuntimeMetric
func NewRuntimeMetric(meter metric.Meter) (*RuntimeMetric, error) {
	runtimeMetric := new(RuntimeMetric)
	var err error

	if runtimeMetric.activationCount, err = meter.Int64Counter(
		"actor_activation_count",
		metric.WithDescription("Total number of actor activations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create activationCount instrument, %w", err)
	}

	if runtimeMetric.activationFailureCount, err = meter.Int64Counter(
		"actor_activation_failure_count",
		metric.WithDescription("Total number of failed actor activations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create activationFailureCount instrument, %w", err)
	}

	if runtimeMetric.deactivationCount, err = meter.Int64Counter(
		"actor_deactivation_count",
		metric.WithDescription("Total number of actor deactivations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deactivationCount instrument, %w", err)
	}

	if runtimeMetric.activeCount, err = meter.Int64UpDownCounter(
		"actor_active_count",
		metric.WithDescription("Number of live actors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create activeCount instrument, %w", err)
	}

	if runtimeMetric.invocationCount, err = meter.Int64Counter(
		"actor_invocation_count",
		metric.WithDescription("Total number of actor invocations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create invocationCount instrument, %w", err)
	}

	if runtimeMetric.invocationFailureCount, err = meter.Int64Counter(
		"actor_invocation_failure_count",
		metric.WithDescription("Total number of failed actor invocations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create invocationFailureCount instrument, %w", err)
	}

	if runtimeMetric.invocationDuration, err = meter.Float64Histogram(
		"actor_invocation_duration",
		metric.WithDescription("The latency of actor invocations in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create invocationDuration instrument, %w", err)
	}

	return runtimeMetric, nil
}

// RecordActivation records the outcome of an activation
func (x *RuntimeMetric) RecordActivation(ctx context.Context, actorType string, err error) {
	attrs := metric.WithAttributes(ActorTypeKey.String(actorType))
	if err != nil {
		x.activationFailureCount.Add(ctx, 1, attrs)
		return
	}
	x.activationCount.Add(ctx, 1, attrs)
	x.activeCount.Add(ctx, 1, attrs)
}

// RecordDeactivation records a deactivation
func (x *RuntimeMetric) RecordDeactivation(ctx context.Context, actorType string) {
	attrs := metric.WithAttributes(ActorTypeKey.String(actorType))
	x.deactivationCount.Add(ctx, 1, attrs)
	x.activeCount.Add(ctx, -1, attrs)
}

// RecordInvocation records the outcome and latency of an invocation
func (x *RuntimeMetric) RecordInvocation(ctx context.Context, actorType, callType, method string, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(
		ActorTypeKey.String(actorType),
		CallTypeKey.String(callType),
		MethodKey.String(method),
	)

	x.invocationCount.Add(ctx, 1, attrs)
	x.invocationDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
	if err != nil {
		x.invocationFailureCount.Add(ctx, 1, attrs)
	}
}
