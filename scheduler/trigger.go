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

package scheduler

import (
	"strconv"
	"sync"
	"time"

	"github.com/reugn/go-quartz/quartz"
)

// trigger fires once after dueTime then every period until ttl elapses or
// repeats firings happened. A period of zero or less fires once and repeats
// of zero or less do not bound the firings.
type trigger struct {
	mu       sync.Mutex
	dueTime  time.Duration
	period   time.Duration
	ttl      time.Duration
	repeats  int
	fired    int
	deadline int64
	started  bool
	expired  bool
}

var _ quartz.Trigger = (*trigger)(nil)

func newTrigger(dueTime, period, ttl time.Duration, repeats int) *trigger {
	return &trigger{
		dueTime: max(dueTime, 0),
		period:  period,
		ttl:     ttl,
		repeats: repeats,
	}
}

// NextFireTime implements quartz.Trigger
func (t *trigger) NextFireTime(prev int64) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		t.started = true
		if t.ttl > 0 {
			t.deadline = prev + t.ttl.Nanoseconds()
		}
		return t.next(prev + t.dueTime.Nanoseconds())
	}

	if t.period <= 0 {
		t.expired = true
		return 0, quartz.ErrTriggerExpired
	}
	return t.next(prev + t.period.Nanoseconds())
}

// Description implements quartz.Trigger
func (t *trigger) Description() string {
	return "actor::dueTime=" + t.dueTime.String() + "::period=" + t.period.String() + "::ttl=" + t.ttl.String() + "::repeats=" + strconv.Itoa(t.repeats)
}

// Expired reports whether the trigger will not fire anymore
func (t *trigger) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expired
}

func (t *trigger) next(fireAt int64) (int64, error) {
	if (t.deadline > 0 && fireAt > t.deadline) || (t.repeats > 0 && t.fired >= t.repeats) {
		t.expired = true
		return 0, quartz.ErrTriggerExpired
	}
	t.fired++
	return fireAt, nil
}
