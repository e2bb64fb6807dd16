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

package serializer

import (
	"encoding/json"
	"fmt"
	"time"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/internal/duration"
)

// TimerParams is the wire shape of a timer registration.
//
// Durations travel in the sidecar duration format ("0h0m5s0ms"). A period of
// zero or less marks a one-shot timer and is omitted on the wire. A bounded
// number of firings travels as an ISO-8601 repeating period ("R5/PT10S").
type TimerParams struct {
	// Callback is the actor method invoked when the timer fires
	Callback string
	// Data is the opaque payload handed to the callback
	Data []byte
	// DueTime is the delay before the first firing
	DueTime time.Duration
	// Period is the interval between firings
	Period time.Duration
	// Repetitions bounds the number of firings of a periodic timer. Zero means unbounded.
	Repetitions int
	// TTL bounds the lifetime of the timer. Zero means no TTL.
	TTL time.Duration
}

type timerParamsWire struct {
	Callback string `json:"callback"`
	Data     []byte `json:"data,omitempty"`
	DueTime  string `json:"dueTime"`
	Period   string `json:"period,omitempty"`
	TTL      string `json:"ttl,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (p TimerParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(timerParamsWire{
		Callback: p.Callback,
		Data:     p.Data,
		DueTime:  duration.Format(p.DueTime),
		Period:   formatPeriod(p.Period, p.Repetitions),
		TTL:      formatOptional(p.TTL),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *TimerParams) UnmarshalJSON(data []byte) error {
	var wire timerParamsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	dueTime, period, repetitions, ttl, err := parseDurations(wire.DueTime, wire.Period, wire.TTL)
	if err != nil {
		return err
	}

	*p = TimerParams{
		Callback:    wire.Callback,
		Data:        wire.Data,
		DueTime:     dueTime,
		Period:      period,
		Repetitions: repetitions,
		TTL:         ttl,
	}
	return nil
}

// ReminderParams is the wire shape of a reminder registration and of the
// payload delivered back when the reminder fires.
type ReminderParams struct {
	// Data is the opaque payload handed to the reminder receiver
	Data []byte
	// DueTime is the delay before the first firing
	DueTime time.Duration
	// Period is the interval between firings; zero or less fires once
	Period time.Duration
	// Repetitions bounds the number of firings of a periodic reminder. Zero means unbounded.
	Repetitions int
	// TTL bounds the lifetime of the reminder. Zero means no TTL.
	TTL time.Duration
	// FailurePolicy tells the scheduler what to do when delivery fails. Optional.
	FailurePolicy FailurePolicy
}

type reminderParamsWire struct {
	Data          []byte             `json:"data,omitempty"`
	DueTime       string             `json:"dueTime"`
	Period        string             `json:"period,omitempty"`
	TTL           string             `json:"ttl,omitempty"`
	FailurePolicy *failurePolicyWire `json:"failurePolicy,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (p ReminderParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(reminderParamsWire{
		Data:          p.Data,
		DueTime:       duration.Format(p.DueTime),
		Period:        formatPeriod(p.Period, p.Repetitions),
		TTL:           formatOptional(p.TTL),
		FailurePolicy: toFailurePolicyWire(p.FailurePolicy),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *ReminderParams) UnmarshalJSON(data []byte) error {
	var wire reminderParamsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	dueTime, period, repetitions, ttl, err := parseDurations(wire.DueTime, wire.Period, wire.TTL)
	if err != nil {
		return err
	}

	policy, err := fromFailurePolicyWire(wire.FailurePolicy)
	if err != nil {
		return err
	}

	*p = ReminderParams{
		Data:          wire.Data,
		DueTime:       dueTime,
		Period:        period,
		Repetitions:   repetitions,
		TTL:           ttl,
		FailurePolicy: policy,
	}
	return nil
}

// FailurePolicy is the tagged union of reminder failure policies: DropPolicy
// or ConstantPolicy.
type FailurePolicy interface {
	failurePolicy()
}

// DropPolicy drops a reminder firing whose delivery failed.
type DropPolicy struct{}

func (DropPolicy) failurePolicy() {}

// ConstantPolicy retries a failed delivery at a constant interval.
type ConstantPolicy struct {
	// MaxRetries bounds the retries. Nil means retry until the next firing.
	MaxRetries *int
	// Interval is the delay between retries. Nil lets the scheduler decide.
	Interval *time.Duration
}

func (ConstantPolicy) failurePolicy() {}

type failurePolicyWire struct {
	Drop     *struct{}           `json:"drop,omitempty"`
	Constant *constantPolicyWire `json:"constant,omitempty"`
}

type constantPolicyWire struct {
	MaxRetries *int   `json:"maxRetries,omitempty"`
	Interval   string `json:"interval,omitempty"`
}

func toFailurePolicyWire(policy FailurePolicy) *failurePolicyWire {
	switch x := policy.(type) {
	case DropPolicy, *DropPolicy:
		return &failurePolicyWire{Drop: &struct{}{}}
	case ConstantPolicy:
		return &failurePolicyWire{Constant: toConstantWire(&x)}
	case *ConstantPolicy:
		if x == nil {
			return nil
		}
		return &failurePolicyWire{Constant: toConstantWire(x)}
	default:
		return nil
	}
}

func toConstantWire(policy *ConstantPolicy) *constantPolicyWire {
	wire := &constantPolicyWire{MaxRetries: policy.MaxRetries}
	if policy.Interval != nil {
		wire.Interval = duration.Format(*policy.Interval)
	}
	return wire
}

func fromFailurePolicyWire(wire *failurePolicyWire) (FailurePolicy, error) {
	switch {
	case wire == nil:
		return nil, nil
	case wire.Drop != nil:
		return DropPolicy{}, nil
	case wire.Constant != nil:
		policy := ConstantPolicy{MaxRetries: wire.Constant.MaxRetries}
		if wire.Constant.Interval != "" {
			interval, err := duration.Parse(wire.Constant.Interval)
			if err != nil {
				return nil, err
			}
			policy.Interval = &interval
		}
		return policy, nil
	default:
		return nil, nil
	}
}

func formatOptional(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return duration.Format(d)
}

func formatPeriod(period time.Duration, repetitions int) string {
	if period <= 0 || repetitions <= 0 {
		return formatOptional(period)
	}
	return fmt.Sprintf("R%d/%s", repetitions, duration.Format(period))
}

// parseDurations reads the wire durations. An unbounded period reports zero
// repetitions; "R0/..." never fires and is rejected.
func parseDurations(dueTime, period, ttl string) (time.Duration, time.Duration, int, time.Duration, error) {
	due, err := duration.Parse(dueTime)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	every, repetitions, err := duration.ParseRepetition(period)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	if repetitions == 0 {
		return 0, 0, 0, 0, gerrors.NewErrInvalidDuration(period)
	}

	lifetime, err := duration.Parse(ttl)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return due, every, max(repetitions, 0), lifetime, nil
}
