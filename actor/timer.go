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

package actor

import (
	"context"
	"time"

	"github.com/tochemey/vactor/serializer"
)

// Timer is a timer registered by an actor activation.
type Timer struct {
	// Name is the timer name, unique per actor
	Name string
	// Callback is the actor method invoked when the timer fires
	Callback string
	// Data is the serialized payload passed to the callback
	Data []byte
	// DueTime is the delay before the first firing
	DueTime time.Duration
	// Period is the interval between firings. Zero or less fires once.
	Period time.Duration
	// TTL bounds the lifetime of the timer. Zero means no TTL.
	TTL time.Duration
}

// OneShot reports whether the timer fires only once
func (t *Timer) OneShot() bool {
	return t.Period <= 0
}

func (t *Timer) params() *serializer.TimerParams {
	return &serializer.TimerParams{
		Callback: t.Callback,
		Data:     t.Data,
		DueTime:  t.DueTime,
		Period:   t.Period,
		TTL:      t.TTL,
	}
}

// Scheduler drives timers and reminders. It is usually the sidecar; see the
// scheduler package for an in-process implementation.
//
// params carries the serialized serializer.TimerParams or
// serializer.ReminderParams of the registration.
type Scheduler interface {
	// RegisterTimer registers or replaces a timer
	RegisterTimer(ctx context.Context, actorType, actorID, name string, params []byte) error
	// UnregisterTimer removes a timer
	UnregisterTimer(ctx context.Context, actorType, actorID, name string) error
	// RegisterReminder registers or replaces a reminder
	RegisterReminder(ctx context.Context, actorType, actorID, name string, params []byte) error
	// UnregisterReminder removes a reminder
	UnregisterReminder(ctx context.Context, actorType, actorID, name string) error
}

// noopScheduler accepts every registration. Timers and reminders are then
// expected to be driven through the runtime callbacks.
type noopScheduler struct{}

var _ Scheduler = noopScheduler{}

func (noopScheduler) RegisterTimer(context.Context, string, string, string, []byte) error {
	return nil
}

func (noopScheduler) UnregisterTimer(context.Context, string, string, string) error {
	return nil
}

func (noopScheduler) RegisterReminder(context.Context, string, string, string, []byte) error {
	return nil
}

func (noopScheduler) UnregisterReminder(context.Context, string, string, string) error {
	return nil
}
