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
	"fmt"
	"slices"
	"time"

	"go.uber.org/multierr"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/internal/xsync"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/serializer"
	"github.com/tochemey/vactor/state"
)

// Actor defines the contract of virtual actors hosted by the runtime.
//
// Actors are activated on demand by the runtime and deactivated when no longer
// needed. Calls to one actor instance are processed one at a time unless they
// belong to the same reentrant call chain.
//
// Implementations embed Base, which provides no-op hooks, the actor state and
// timers and reminders registration:
//
//	type Counter struct {
//	    actor.Base
//	}
//
//	func (c *Counter) Increment(ctx context.Context, delta int) (int, error) {
//	    count, err := state.GetAs[int](ctx, c.State(), "count")
//	    ...
//	}
type Actor interface {
	// OnActivate is called once the instance is created, before it receives any call.
	// Returning an error fails the activation.
	OnActivate(ctx context.Context) error
	// OnDeactivate is called when the instance is removed from the runtime.
	OnDeactivate(ctx context.Context) error
	// OnPreActorMethod is called before every method, timer and reminder dispatch.
	OnPreActorMethod(ctx context.Context, mc MethodContext) error
	// OnPostActorMethod is called after every successful dispatch, before state is saved.
	OnPostActorMethod(ctx context.Context, mc MethodContext) error

	base() *Base
}

// Remindable is implemented by actor types that receive reminders.
type Remindable interface {
	Actor
	// ReceiveReminder is called when the reminder named name fires.
	ReceiveReminder(ctx context.Context, name string, data []byte, dueTime, period time.Duration) error
}

// Base is embedded by every actor implementation.
type Base struct {
	id     string
	rc     *RuntimeContext
	state  *state.Manager
	timers *xsync.Map[string, *Timer]
	logger log.Logger
}

func (b *Base) base() *Base {
	return b
}

// init binds the base to its runtime context. It is called by the runtime
// right after the factory creates the instance.
func (b *Base) init(rc *RuntimeContext, id string) {
	b.id = id
	b.rc = rc
	b.timers = xsync.NewMap[string, *Timer]()
	b.logger = rc.Logger().With("actor", NewIdentity(rc.ActorType(), id).String())
	b.state = state.NewManager(rc.ActorType(), id, rc.StateProvider(), rc.Serializer(), state.WithLogger(b.logger))
}

// ID returns the actor id
func (b *Base) ID() string {
	return b.id
}

// Type returns the actor type name
func (b *Base) Type() string {
	return b.rc.ActorType()
}

// Identity returns the actor identity
func (b *Base) Identity() Identity {
	return NewIdentity(b.Type(), b.id)
}

// State returns the state manager of the actor
func (b *Base) State() *state.Manager {
	return b.state
}

// Logger returns the actor logger
func (b *Base) Logger() log.Logger {
	return b.logger
}

// RuntimeContext returns the runtime context of the actor type
func (b *Base) RuntimeContext() *RuntimeContext {
	return b.rc
}

// SaveState saves the pending state changes.
// The runtime already saves state after every successful call.
func (b *Base) SaveState(ctx context.Context) error {
	return b.state.Save(ctx)
}

// OnActivate implements Actor
func (b *Base) OnActivate(context.Context) error {
	return nil
}

// OnDeactivate implements Actor
func (b *Base) OnDeactivate(context.Context) error {
	return nil
}

// OnPreActorMethod implements Actor
func (b *Base) OnPreActorMethod(context.Context, MethodContext) error {
	return nil
}

// OnPostActorMethod implements Actor
func (b *Base) OnPostActorMethod(context.Context, MethodContext) error {
	return nil
}

// RegisterTimer registers a timer that invokes the callback method with data
// after dueTime and then every period. A period of zero or less fires once.
// A ttl of zero or less means the timer lives until unregistered.
// An empty name is replaced by a generated one. It returns the timer name.
//
// Timers are bound to the activation: they are dropped on deactivation.
func (b *Base) RegisterTimer(ctx context.Context, name, callback string, data any, dueTime, period, ttl time.Duration) (string, error) {
	if _, err := b.rc.TypeInfo().methods.get(b.Type(), callback); err != nil {
		return "", err
	}

	if name == "" {
		name = fmt.Sprintf("%s_%s", callback, NewRandomID())
	}

	payload, err := b.rc.Serializer().Serialize(data)
	if err != nil {
		return "", err
	}

	timer := &Timer{
		Name:     name,
		Callback: callback,
		Data:     payload,
		DueTime:  dueTime,
		Period:   period,
		TTL:      ttl,
	}

	params, err := b.rc.Serializer().Serialize(timer.params())
	if err != nil {
		return "", err
	}

	if err := b.rc.Scheduler().RegisterTimer(ctx, b.Type(), b.id, name, params); err != nil {
		return "", err
	}

	b.timers.Set(name, timer)
	b.logger.Debugf("timer %s registered", name)
	return name, nil
}

// UnregisterTimer unregisters a timer
func (b *Base) UnregisterTimer(ctx context.Context, name string) error {
	if !b.timers.Has(name) {
		return gerrors.NewErrTimerNotFound(b.Identity().String(), name)
	}

	if err := b.rc.Scheduler().UnregisterTimer(ctx, b.Type(), b.id, name); err != nil {
		return err
	}

	b.timers.Delete(name)
	return nil
}

// Timer returns a registered timer
func (b *Base) Timer(name string) (*Timer, bool) {
	return b.timers.Get(name)
}

// Timers returns the names of the registered timers in lexical order
func (b *Base) Timers() []string {
	names := b.timers.Keys()
	slices.Sort(names)
	return names
}

// RegisterReminder registers a reminder. Unlike timers, reminders outlive the
// activation: when a reminder fires the actor is activated if needed.
// The actor type must implement Remindable to receive it.
func (b *Base) RegisterReminder(ctx context.Context, name string, data any, dueTime, period, ttl time.Duration) error {
	if name == "" {
		return fmt.Errorf("%w: reminder name is required", gerrors.ErrInvalidMethod)
	}

	payload, err := b.rc.Serializer().Serialize(data)
	if err != nil {
		return err
	}

	params, err := b.rc.Serializer().Serialize(&serializer.ReminderParams{
		Data:    payload,
		DueTime: dueTime,
		Period:  period,
		TTL:     ttl,
	})
	if err != nil {
		return err
	}

	return b.rc.Scheduler().RegisterReminder(ctx, b.Type(), b.id, name, params)
}

// UnregisterReminder unregisters a reminder
func (b *Base) UnregisterReminder(ctx context.Context, name string) error {
	return b.rc.Scheduler().UnregisterReminder(ctx, b.Type(), b.id, name)
}

// reset drops the uncommitted state of the actor
func (b *Base) reset() {
	b.state.Clear()
}

// dropTimers unregisters every timer of the activation
func (b *Base) dropTimers(ctx context.Context) error {
	var err error
	for _, name := range b.Timers() {
		err = multierr.Append(err, b.UnregisterTimer(ctx, name))
	}
	return err
}
