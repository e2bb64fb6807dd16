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
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tochemey/vactor/actor"
	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/internal/xsync"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/serializer"
)

const (
	timerKind    = "timer"
	reminderKind = "reminder"
	keySeparator = "||"

	// DefaultStopTimeout bounds the wait for running jobs on Stop
	DefaultStopTimeout = 5 * time.Second
	// DefaultRetryInterval is the retry interval of a constant failure policy without interval
	DefaultRetryInterval = time.Second
	// DefaultMaxRetries is the retries of a constant failure policy without bound
	DefaultMaxRetries = 3
)

// Invoker delivers timers and reminders to actors. It is implemented by
// *actor.Runtime.
type Invoker interface {
	InvokeTimer(ctx context.Context, actorType, actorID, timer string) error
	InvokeReminder(ctx context.Context, actorType, actorID, reminder string, params []byte) error
}

var _ Invoker = (*actor.Runtime)(nil)

// Local drives actor timers and reminders in process, for runtimes that are
// not hosted behind a sidecar. Registrations are kept in memory: reminders do
// not survive a restart.
type Local struct {
	mu          sync.Mutex
	quartz      quartz.Scheduler
	started     atomic.Bool
	invoker     Invoker
	triggers    *xsync.Map[string, *trigger]
	codec       serializer.Serializer
	logger      log.Logger
	stopTimeout time.Duration
}

var _ actor.Scheduler = (*Local)(nil)

// NewLocal creates an instance of Local
func NewLocal(opts ...Option) *Local {
	// the quartz logs are too chatty
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))

	local := &Local{
		quartz:      quartzScheduler,
		triggers:    xsync.NewMap[string, *trigger](),
		codec:       serializer.NewJSON(),
		logger:      log.DefaultLogger,
		stopTimeout: DefaultStopTimeout,
	}

	for _, opt := range opts {
		opt.Apply(local)
	}
	return local
}

// Start starts the scheduler. Fired timers and reminders are delivered to invoker.
func (x *Local) Start(ctx context.Context, invoker Invoker) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.started.Load() {
		return nil
	}

	if invoker == nil {
		return errors.New("scheduler invoker is required")
	}

	x.logger.Info("starting actor scheduler...")
	x.invoker = invoker
	x.quartz.Start(ctx)
	x.started.Store(x.quartz.IsStarted())
	x.logger.Info("actor scheduler started.")
	return nil
}

// Stop stops the scheduler and waits for the running jobs
func (x *Local) Stop(ctx context.Context) error {
	if !x.started.Load() {
		return nil
	}

	x.logger.Info("stopping actor scheduler...")
	x.mu.Lock()
	err := x.quartz.Clear()
	x.quartz.Stop()
	x.started.Store(x.quartz.IsStarted())
	x.triggers.Reset()
	x.mu.Unlock()

	// running jobs may need the lock to drop themselves
	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartz.Wait(ctx)

	x.logger.Info("actor scheduler stopped.")
	return err
}

// RegisterTimer implements actor.Scheduler
func (x *Local) RegisterTimer(_ context.Context, actorType, actorID, name string, params []byte) error {
	timer := new(serializer.TimerParams)
	if err := x.codec.Deserialize(params, timer); err != nil {
		return fmt.Errorf("failed to decode timer %s: %w", name, err)
	}

	key := jobKey(timerKind, actorType, actorID, name)
	fire := job.NewFunctionJob(func(ctx context.Context) (bool, error) {
		err := x.invoker.InvokeTimer(ctx, actorType, actorID, name)
		if gerrors.IsNotFound(err) {
			// the activation owning the timer is gone
			x.drop(key)
			return false, err
		}

		if err != nil {
			x.logger.Warnf("timer %s of actor %s/%s failed: %v", name, actorType, actorID, err)
		}
		return err == nil, err
	})

	return x.schedule(key, fire, newTrigger(timer.DueTime, timer.Period, timer.TTL, timer.Repetitions))
}

// UnregisterTimer implements actor.Scheduler
func (x *Local) UnregisterTimer(_ context.Context, actorType, actorID, name string) error {
	return x.unschedule(jobKey(timerKind, actorType, actorID, name))
}

// RegisterReminder implements actor.Scheduler
func (x *Local) RegisterReminder(_ context.Context, actorType, actorID, name string, params []byte) error {
	reminder := new(serializer.ReminderParams)
	if err := x.codec.Deserialize(params, reminder); err != nil {
		return fmt.Errorf("failed to decode reminder %s: %w", name, err)
	}

	retrier := newRetrier(reminder.FailurePolicy, reminder.Period)
	fire := job.NewFunctionJob(func(ctx context.Context) (bool, error) {
		err := retrier.RunContext(ctx, func(ctx context.Context) error {
			return x.invoker.InvokeReminder(ctx, actorType, actorID, name, params)
		})

		if err != nil {
			x.logger.Warnf("reminder %s of actor %s/%s failed: %v", name, actorType, actorID, err)
		}
		return err == nil, err
	})

	key := jobKey(reminderKind, actorType, actorID, name)
	return x.schedule(key, fire, newTrigger(reminder.DueTime, reminder.Period, reminder.TTL, reminder.Repetitions))
}

// UnregisterReminder implements actor.Scheduler
func (x *Local) UnregisterReminder(_ context.Context, actorType, actorID, name string) error {
	return x.unschedule(jobKey(reminderKind, actorType, actorID, name))
}

// Timers returns the names of the pending timers of an actor in lexical order
func (x *Local) Timers(actorType, actorID string) []string {
	return x.pending(timerKind, actorType, actorID)
}

// Reminders returns the names of the pending reminders of an actor in lexical order
func (x *Local) Reminders(actorType, actorID string) []string {
	return x.pending(reminderKind, actorType, actorID)
}

func (x *Local) schedule(key string, fire quartz.Job, trigger *trigger) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	jobKey := quartz.NewJobKey(key)
	if x.triggers.Has(key) {
		// replacing a registration
		_ = x.quartz.DeleteJob(jobKey)
	}

	if err := x.quartz.ScheduleJob(quartz.NewJobDetail(fire, jobKey), trigger); err != nil {
		return err
	}

	x.triggers.Set(key, trigger)
	return nil
}

func (x *Local) unschedule(key string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	if _, ok := x.triggers.Pop(key); !ok {
		return nil
	}

	// an expired job is already gone
	_ = x.quartz.DeleteJob(quartz.NewJobKey(key))
	return nil
}

func (x *Local) drop(key string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.triggers.Delete(key)
	_ = x.quartz.DeleteJob(quartz.NewJobKey(key))
}

func (x *Local) pending(kind, actorType, actorID string) []string {
	prefix := jobKey(kind, actorType, actorID, "")
	var names []string
	x.triggers.Range(func(key string, trigger *trigger) {
		if strings.HasPrefix(key, prefix) && !trigger.Expired() {
			names = append(names, strings.TrimPrefix(key, prefix))
		}
	})
	slices.Sort(names)
	return names
}

func jobKey(kind, actorType, actorID, name string) string {
	return strings.Join([]string{kind, actorType, actorID, name}, keySeparator)
}

// newRetrier builds the delivery retrier of a reminder from its failure policy
func newRetrier(policy serializer.FailurePolicy, period time.Duration) *retry.Retrier {
	var constant *serializer.ConstantPolicy
	switch x := policy.(type) {
	case serializer.ConstantPolicy:
		constant = &x
	case *serializer.ConstantPolicy:
		constant = x
	}

	if constant == nil {
		return retry.NewRetrier(1, DefaultRetryInterval, DefaultRetryInterval)
	}

	interval := DefaultRetryInterval
	if constant.Interval != nil && *constant.Interval > 0 {
		interval = *constant.Interval
	}

	retries := DefaultMaxRetries
	switch {
	case constant.MaxRetries != nil:
		retries = max(*constant.MaxRetries, 0)
	case period > 0:
		retries = max(int(period/interval)-1, 0)
	}
	return retry.NewRetrier(retries+1, interval, interval)
}
