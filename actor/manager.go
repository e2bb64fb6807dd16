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
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/internal/metric"
	"github.com/tochemey/vactor/internal/xsync"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/reentrancy"
	"github.com/tochemey/vactor/serializer"
)

// Manager owns the live actors of one actor type and runs the invocation
// pipeline against them.
//
// Every invocation goes through the same steps: reentrancy admission, pre-call
// hook, dispatch, post-call hook and state save. When any step after admission
// fails, including on panic or cancellation, the uncommitted state of the
// instance is discarded so that the next call reads from the state provider.
type Manager struct {
	rc      *RuntimeContext
	actors  *xsync.Map[string, Actor]
	tracker *reentrancy.Context
	group   singleflight.Group
	metric  *metric.RuntimeMetric
	tracer  trace.Tracer
	logger  log.Logger

	invocations atomic.Int64
	failures    atomic.Int64
}

func newManager(rc *RuntimeContext, tracker *reentrancy.Context, tracer trace.Tracer, runtimeMetric *metric.RuntimeMetric) *Manager {
	return &Manager{
		rc:      rc,
		actors:  xsync.NewMap[string, Actor](),
		tracker: tracker,
		metric:  runtimeMetric,
		tracer:  tracer,
		logger:  rc.Logger(),
	}
}

// ActorType returns the actor type managed
func (m *Manager) ActorType() string {
	return m.rc.ActorType()
}

// RuntimeContext returns the runtime context of the actor type
func (m *Manager) RuntimeContext() *RuntimeContext {
	return m.rc
}

// IsActive reports whether the actor is live
func (m *Manager) IsActive(id string) bool {
	return m.actors.Has(id)
}

// ActiveIDs returns the ids of the live actors in lexical order
func (m *Manager) ActiveIDs() []string {
	ids := m.actors.Keys()
	slices.Sort(ids)
	return ids
}

// Invocations returns the number of invocations processed so far
func (m *Manager) Invocations() int64 {
	return m.invocations.Load()
}

// Failures returns the number of failed invocations so far
func (m *Manager) Failures() int64 {
	return m.failures.Load()
}

// Activate creates the actor instance, runs its activation hook and publishes
// it. Activating a live actor is a no-op. Concurrent activations of the same
// id share one attempt; a failed activation is not retried.
func (m *Manager) Activate(ctx context.Context, id string) error {
	if err := validateID(id).Validate(); err != nil {
		return err
	}

	if m.actors.Has(id) {
		return nil
	}

	_, err, _ := m.group.Do(id, func() (any, error) {
		if m.actors.Has(id) {
			return nil, nil
		}

		err := m.activate(ctx, id)
		m.metric.RecordActivation(ctx, m.ActorType(), err)
		return nil, err
	})
	return err
}

func (m *Manager) activate(ctx context.Context, id string) (err error) {
	identity := NewIdentity(m.ActorType(), id).String()
	ctx, span := m.tracer.Start(ctx, "actor.activate", trace.WithAttributes(
		attribute.String("actor.type", m.ActorType()),
		attribute.String("actor.id", id),
	))
	defer func() {
		endSpan(span, err)
	}()

	m.logger.Infof("Activating actor %s ...", identity)

	instance, err := m.create(id)
	if err != nil {
		m.logger.Errorf("Actor %s activation failed: %v", identity, err)
		return gerrors.NewErrActivation(err)
	}

	base := instance.base()
	base.init(m.rc, id)
	base.reset()

	if err := safely(func() error { return instance.OnActivate(ctx) }); err != nil {
		m.logger.Errorf("Actor %s activation failed: %v", identity, err)
		return gerrors.NewErrActivation(err)
	}

	if err := base.state.Save(ctx); err != nil {
		m.logger.Errorf("Actor %s activation failed: %v", identity, err)
		return gerrors.NewErrActivation(err)
	}

	m.actors.Set(id, instance)
	m.logger.Infof("Actor %s successfully activated.", identity)
	return nil
}

// create runs the factory, turning a panic or a missing instance into an error
func (m *Manager) create(id string) (instance Actor, err error) {
	err = safely(func() error {
		var ferr error
		instance, ferr = m.rc.info.factory(m.rc, id)
		return ferr
	})

	if err != nil {
		return nil, err
	}

	if instance.base() == nil {
		return nil, fmt.Errorf("%T does not embed an actor.Base", instance)
	}
	return instance, nil
}

// Deactivate removes the actor from the live table and runs its deactivation
// hook. It waits for the in-flight call chain, if any, to complete.
// Deactivating an actor that is not live is a no-op.
//
// An actor must not deactivate itself from within one of its calls.
func (m *Manager) Deactivate(ctx context.Context, id string) error {
	if !m.actors.Has(id) {
		return nil
	}

	key := reentrancy.NewKey(id, m.ActorType())
	if err := m.tracker.Acquire(ctx, key, nil, 0); err != nil {
		return err
	}
	defer m.done(key, nil)

	instance, ok := m.actors.Pop(id)
	if !ok {
		return nil
	}

	identity := NewIdentity(m.ActorType(), id).String()
	m.logger.Infof("Deactivating actor %s ...", identity)
	m.metric.RecordDeactivation(ctx, m.ActorType())

	base := instance.base()
	defer base.reset()

	if err := base.dropTimers(ctx); err != nil {
		m.logger.Warnf("Actor %s failed to drop its timers: %v", identity, err)
	}

	if err := safely(func() error { return instance.OnDeactivate(ctx) }); err != nil {
		m.logger.Errorf("Actor %s deactivation failed: %v", identity, err)
		return gerrors.NewErrDeactivation(err)
	}

	m.logger.Infof("Actor %s successfully deactivated.", identity)
	return nil
}

// DeactivateAll deactivates every live actor concurrently
func (m *Manager) DeactivateAll(ctx context.Context) error {
	var (
		eg   errgroup.Group
		mu   sync.Mutex
		errs error
	)

	eg.SetLimit(runtime.NumCPU())
	for _, id := range m.ActiveIDs() {
		eg.Go(func() error {
			if err := m.Deactivate(ctx, id); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = eg.Wait()
	return errs
}

// InvokeMethod invokes the method of a live actor with the serialized payload
// and returns the serialized result.
func (m *Manager) InvokeMethod(ctx context.Context, id, method string, payload []byte) ([]byte, error) {
	if !m.actors.Has(id) {
		return nil, gerrors.NewErrActorNotFound(m.ActorType(), id)
	}

	resolved, err := m.rc.info.methods.get(m.ActorType(), method)
	if err != nil {
		return nil, err
	}

	return m.invoke(ctx, id, newMethodContext(method, InterfaceMethod), func(ctx context.Context, instance Actor) ([]byte, error) {
		return resolved.invoke(ctx, instance, payload, m.rc.serializer)
	})
}

// InvokeTimer fires a timer registered by a live actor. A one-shot timer is
// dropped once fired.
func (m *Manager) InvokeTimer(ctx context.Context, id, name string) error {
	instance, ok := m.actors.Get(id)
	if !ok {
		return gerrors.NewErrActorNotFound(m.ActorType(), id)
	}

	base := instance.base()
	timer, ok := base.Timer(name)
	if !ok {
		return gerrors.NewErrTimerNotFound(NewIdentity(m.ActorType(), id).String(), name)
	}

	callback, err := m.rc.info.methods.get(m.ActorType(), timer.Callback)
	if err != nil {
		return err
	}

	_, err = m.invoke(ctx, id, newMethodContext(timer.Callback, TimerCall), func(ctx context.Context, instance Actor) ([]byte, error) {
		return callback.invoke(ctx, instance, timer.Data, m.rc.serializer)
	})

	if timer.OneShot() {
		// the callback may have registered a new timer under the same name
		base.timers.DeleteFunc(name, func(current *Timer) bool { return current == timer })
	}
	return err
}

// InvokeReminder delivers a reminder to a live actor. params carries the
// serialized serializer.ReminderParams. Reminders sent to an actor type that
// does not implement Remindable are ignored.
func (m *Manager) InvokeReminder(ctx context.Context, id, name string, params []byte) error {
	if !m.rc.info.remindable {
		m.logger.Debugf("actor type %s is not remindable, reminder %s ignored", m.ActorType(), name)
		return nil
	}

	if !m.actors.Has(id) {
		return gerrors.NewErrActorNotFound(m.ActorType(), id)
	}

	reminder := new(serializer.ReminderParams)
	if err := m.rc.serializer.Deserialize(params, reminder); err != nil {
		return fmt.Errorf("failed to decode reminder %s: %w", name, err)
	}

	_, err := m.invoke(ctx, id, newMethodContext(name, ReminderCall), func(ctx context.Context, instance Actor) ([]byte, error) {
		receiver := instance.(Remindable)
		return nil, gerrors.NewBusinessError(receiver.ReceiveReminder(ctx, name, reminder.Data, reminder.DueTime, reminder.Period))
	})
	return err
}

// invoke runs the invocation pipeline
func (m *Manager) invoke(ctx context.Context, id string, mc MethodContext, call func(context.Context, Actor) ([]byte, error)) (out []byte, err error) {
	start := time.Now()
	m.invocations.Inc()

	ctx, span := m.tracer.Start(ctx, "actor."+mc.CallType.String(), trace.WithAttributes(
		attribute.String("actor.type", m.ActorType()),
		attribute.String("actor.id", id),
		attribute.String("actor.method", mc.MethodName),
	))

	defer func() {
		if err != nil {
			m.failures.Inc()
		}
		m.metric.RecordInvocation(ctx, m.ActorType(), mc.CallType.String(), mc.MethodName, time.Since(start), err)
		endSpan(span, err)
	}()

	ctx, mc.ReentrancyID = m.reentrancyID(ctx)
	key := reentrancy.NewKey(id, m.ActorType())
	if err := m.tracker.Acquire(ctx, key, mc.ReentrancyID, m.maxStackDepth()); err != nil {
		return nil, err
	}
	defer m.done(key, mc.ReentrancyID)

	instance, ok := m.actors.Get(id)
	if !ok {
		return nil, gerrors.NewErrActorNotFound(m.ActorType(), id)
	}

	out, err = m.dispatch(ctx, instance, mc, call)
	if err != nil {
		instance.base().reset()
		m.logger.Warnf("Actor %s call %s failed: %v", NewIdentity(m.ActorType(), id).String(), mc.MethodName, err)
		return nil, err
	}
	return out, nil
}

func (m *Manager) dispatch(ctx context.Context, instance Actor, mc MethodContext, call func(context.Context, Actor) ([]byte, error)) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toPanicError(r)
		}
	}()

	if err := instance.OnPreActorMethod(ctx, mc); err != nil {
		return nil, gerrors.NewBusinessError(err)
	}

	out, err = call(ctx, instance)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := instance.OnPostActorMethod(ctx, mc); err != nil {
		return nil, gerrors.NewBusinessError(err)
	}

	if err := instance.base().state.Save(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// reentrancyID returns the call chain id of the invocation. With reentrancy
// enabled a call arriving without an id starts a new chain; the id is carried
// by the returned context so that nested calls join the chain.
func (m *Manager) reentrancyID(ctx context.Context) (context.Context, *string) {
	if !m.rc.reentrancy.Enabled() {
		return ctx, nil
	}

	if id := reentrancy.IDFromContext(ctx); id != nil {
		return ctx, id
	}

	id := reentrancy.NewID()
	return reentrancy.WithID(ctx, id), &id
}

func (m *Manager) maxStackDepth() int {
	if !m.rc.reentrancy.Enabled() {
		return 0
	}
	return m.rc.reentrancy.MaxStackDepth()
}

func (m *Manager) done(key reentrancy.Key, id *string) {
	if err := m.tracker.Done(key, id); err != nil {
		m.logger.Error(err)
	}
}

// safely runs fn turning a panic into an error
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toPanicError(r)
		}
	}()
	return fn()
}

// toPanicError enriches a recovered value with the location of the panic
func toPanicError(r any) error {
	if err, ok := r.(error); ok {
		var pe *gerrors.PanicError
		if errors.As(err, &pe) {
			return pe
		}

		pc, fn, line, _ := runtime.Caller(3)
		return gerrors.NewPanicError(fmt.Errorf("%w at %s[%s:%d]", err, runtime.FuncForPC(pc).Name(), fn, line))
	}

	pc, fn, line, _ := runtime.Caller(3)
	return gerrors.NewPanicError(fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), fn, line))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
