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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/serializer"
	"github.com/tochemey/vactor/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const countState = "count"

var errBoom = errors.New("boom")

// probe observes what happens inside actor instances
type probe struct {
	inFlight      atomic.Int32
	maxInFlight   atomic.Int32
	activations   atomic.Int32
	deactivations atomic.Int32
	hooks         []string
	rejected      string
	mu            sync.Mutex
}

func (p *probe) enter() {
	current := p.inFlight.Inc()
	for {
		seen := p.maxInFlight.Load()
		if current <= seen || p.maxInFlight.CompareAndSwap(seen, current) {
			return
		}
	}
}

func (p *probe) leave() {
	p.inFlight.Dec()
}

func (p *probe) record(hook string) {
	p.mu.Lock()
	p.hooks = append(p.hooks, hook)
	p.mu.Unlock()
}

func (p *probe) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.hooks...)
}

type counter struct {
	Base
	probe *probe
}

func (c *counter) OnActivate(context.Context) error {
	c.probe.activations.Inc()
	return nil
}

func (c *counter) OnDeactivate(context.Context) error {
	c.probe.deactivations.Inc()
	return nil
}

func (c *counter) OnPreActorMethod(_ context.Context, mc MethodContext) error {
	if mc.MethodName == c.probe.rejected {
		return errBoom
	}
	c.probe.record("pre:" + mc.CallType.String() + ":" + mc.MethodName)
	return nil
}

func (c *counter) OnPostActorMethod(_ context.Context, mc MethodContext) error {
	c.probe.record("post:" + mc.CallType.String() + ":" + mc.MethodName)
	return nil
}

func (c *counter) Increment(ctx context.Context, delta int) (int, error) {
	c.probe.enter()
	defer c.probe.leave()

	count, err := c.count(ctx)
	if err != nil {
		return 0, err
	}

	// leaves room for concurrent calls to interleave
	time.Sleep(time.Millisecond)

	count += delta
	return count, c.State().Set(ctx, countState, count, 0)
}

func (c *counter) Get(ctx context.Context) (int, error) {
	return c.count(ctx)
}

func (c *counter) Tick(ctx context.Context, delta int) error {
	_, err := c.Increment(ctx, delta)
	return err
}

// Rearm increments the count then schedules itself again under the same name
func (c *counter) Rearm(ctx context.Context, delta int) error {
	if _, err := c.Increment(ctx, delta); err != nil {
		return err
	}
	_, err := c.RegisterTimer(ctx, "rearm", "Rearm", delta, time.Second, 0, 0)
	return err
}

func (c *counter) Fail(ctx context.Context, count int) error {
	if err := c.State().Set(ctx, countState, count, 0); err != nil {
		return err
	}
	return errBoom
}

func (c *counter) Panic(context.Context) error {
	panic("kaboom")
}

func (c *counter) Block(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (c *counter) count(ctx context.Context) (int, error) {
	count, err := state.GetAs[int](ctx, c.State(), countState)
	if errors.Is(err, gerrors.ErrStateNotFound) {
		return 0, nil
	}
	return count, err
}

func counterTypeInfo(t *testing.T, p *probe) *TypeInfo {
	t.Helper()
	info, err := NewTypeInfo("Counter",
		func(*RuntimeContext, string) (*counter, error) { return &counter{probe: p}, nil },
		NewMethod((*counter).Increment),
		NewMethodNoInput((*counter).Get),
		NewAction((*counter).Tick),
		NewAction((*counter).Rearm),
		NewAction((*counter).Fail),
		NewActionNoInput((*counter).Panic),
		NewActionNoInput((*counter).Block),
	)
	require.NoError(t, err)
	return info
}

type reminder struct {
	Params serializer.ReminderParams
	Name   string
}

type alarm struct {
	Base
	received chan reminder
}

var _ Remindable = (*alarm)(nil)

func (a *alarm) ReceiveReminder(_ context.Context, name string, data []byte, dueTime, period time.Duration) error {
	a.received <- reminder{
		Name:   name,
		Params: serializer.ReminderParams{Data: data, DueTime: dueTime, Period: period},
	}
	if name == "failing" {
		return errBoom
	}
	return nil
}

func alarmTypeInfo(t *testing.T, received chan reminder) *TypeInfo {
	t.Helper()
	info, err := NewTypeInfo("Alarm", func(*RuntimeContext, string) (*alarm, error) {
		return &alarm{received: received}, nil
	})
	require.NoError(t, err)
	return info
}

type broken struct {
	Base
}

func (b *broken) OnActivate(context.Context) error {
	return errBoom
}

// bouncer calls its peer back and forth, hops times
type bouncer struct {
	Base
	runtime *Runtime
	peer    string
}

func (b *bouncer) Bounce(ctx context.Context, hops int) (int, error) {
	if hops == 0 {
		return 0, nil
	}

	payload, err := b.RuntimeContext().Serializer().Serialize(hops - 1)
	if err != nil {
		return 0, err
	}

	out, err := b.runtime.InvokeMethod(ctx, b.peer, b.ID(), "Bounce", payload)
	if err != nil {
		return 0, err
	}

	var bounces int
	if err := b.RuntimeContext().Serializer().Deserialize(out, &bounces); err != nil {
		return 0, err
	}
	return bounces + 1, nil
}

func registerBouncers(t *testing.T, runtime *Runtime, opts ...TypeOption) {
	t.Helper()
	for name, peer := range map[string]string{"Ping": "Pong", "Pong": "Ping"} {
		info, err := NewTypeInfo(name,
			func(*RuntimeContext, string) (*bouncer, error) {
				return &bouncer{runtime: runtime, peer: peer}, nil
			},
			NewMethod((*bouncer).Bounce),
		)
		require.NoError(t, err)
		require.NoError(t, runtime.Register(info, opts...))
	}
}

// scheduler records registrations
type spyScheduler struct {
	mu        sync.Mutex
	timers    map[string][]byte
	reminders map[string][]byte
	failWith  error
}

var _ Scheduler = (*spyScheduler)(nil)

func newSpyScheduler() *spyScheduler {
	return &spyScheduler{
		timers:    make(map[string][]byte),
		reminders: make(map[string][]byte),
	}
}

func (s *spyScheduler) RegisterTimer(_ context.Context, actorType, actorID, name string, params []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.timers[NewIdentity(actorType, actorID).String()+"/"+name] = params
	return nil
}

func (s *spyScheduler) UnregisterTimer(_ context.Context, actorType, actorID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, NewIdentity(actorType, actorID).String()+"/"+name)
	return nil
}

func (s *spyScheduler) RegisterReminder(_ context.Context, actorType, actorID, name string, params []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.reminders[NewIdentity(actorType, actorID).String()+"/"+name] = params
	return nil
}

func (s *spyScheduler) UnregisterReminder(_ context.Context, actorType, actorID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reminders, NewIdentity(actorType, actorID).String()+"/"+name)
	return nil
}

func (s *spyScheduler) timer(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	params, ok := s.timers[key]
	return params, ok
}

func (s *spyScheduler) reminder(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	params, ok := s.reminders[key]
	return params, ok
}

func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	runtime, err := NewRuntime(append([]Option{WithLogger(log.DiscardLogger)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, runtime.Shutdown(context.Background()))
	})
	return runtime
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	bytea, err := serializer.Default().Serialize(v)
	require.NoError(t, err)
	return bytea
}

func decode[T any](t *testing.T, bytea []byte) T {
	t.Helper()
	var v T
	require.NoError(t, serializer.Default().Deserialize(bytea, &v))
	return v
}
