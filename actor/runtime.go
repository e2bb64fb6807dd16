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
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/vactor/config"
	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/internal/metric"
	"github.com/tochemey/vactor/internal/xsync"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/reentrancy"
	"github.com/tochemey/vactor/serializer"
	"github.com/tochemey/vactor/state"
	"github.com/tochemey/vactor/telemetry"
)

// Runtime is the registry of actor types hosted by a process.
//
// A Runtime is created once at process start with NewRuntime and shut down
// once with Shutdown. All its methods are safe for concurrent use.
type Runtime struct {
	managers   *xsync.Map[string, *Manager]
	types      mapset.Set[string]
	overrides  *xsync.Map[string, *reentrancy.Config]
	tracker    *reentrancy.Context
	metric     *metric.RuntimeMetric
	logger     log.Logger
	serializer serializer.Serializer
	provider   state.Provider
	scheduler  Scheduler
	telemetry  *telemetry.Telemetry
	config     *config.Config
	stopped    atomic.Bool
}

// NewRuntime creates an instance of Runtime
func NewRuntime(opts ...Option) (*Runtime, error) {
	runtime := &Runtime{
		managers:   xsync.NewMap[string, *Manager](),
		types:      mapset.NewSet[string](),
		overrides:  xsync.NewMap[string, *reentrancy.Config](),
		tracker:    reentrancy.NewContext(),
		logger:     log.DefaultLogger,
		serializer: serializer.Default(),
		provider:   state.NewMemoryProvider(),
		scheduler:  noopScheduler{},
		config:     config.Default(),
	}

	for _, opt := range opts {
		opt.Apply(runtime)
	}

	if err := runtime.config.Validate(); err != nil {
		return nil, err
	}

	if runtime.telemetry == nil {
		runtime.telemetry = telemetry.New()
	}

	runtimeMetric, err := metric.NewRuntimeMetric(runtime.telemetry.Meter())
	if err != nil {
		return nil, err
	}
	runtime.metric = runtimeMetric
	return runtime, nil
}

// Register registers an actor type
func (r *Runtime) Register(info *TypeInfo, opts ...TypeOption) error {
	if r.stopped.Load() {
		return gerrors.ErrRuntimeShutdown
	}

	if info == nil {
		return gerrors.ErrInvalidActorType
	}

	settings := &typeSettings{
		serializer: r.serializer,
		provider:   r.provider,
	}

	for _, opt := range opts {
		opt.Apply(settings)
	}

	reentrancyConfig := r.config.Reentrancy
	if settings.reentrancy != nil {
		if err := settings.reentrancy.Validate(); err != nil {
			return err
		}
		reentrancyConfig = settings.reentrancy
	}

	if !r.types.Add(info.Name()) {
		return gerrors.NewErrTypeAlreadyRegistered(info.Name())
	}

	rc := &RuntimeContext{
		info:       info,
		provider:   settings.provider,
		serializer: settings.serializer,
		scheduler:  r.scheduler,
		reentrancy: reentrancyConfig,
		logger:     r.logger,
	}

	if settings.reentrancy != nil {
		r.overrides.Set(info.Name(), settings.reentrancy)
	}

	r.managers.Set(info.Name(), newManager(rc, r.tracker, r.telemetry.Tracer(), r.metric))
	r.logger.Infof("actor type %s registered with methods %v", info.Name(), info.Methods())
	return nil
}

// Types returns the registered actor types in lexical order
func (r *Runtime) Types() []string {
	types := r.types.ToSlice()
	slices.Sort(types)
	return types
}

// Manager returns the manager of an actor type
func (r *Runtime) Manager(actorType string) (*Manager, error) {
	manager, ok := r.managers.Get(actorType)
	if !ok {
		return nil, gerrors.NewErrTypeNotRegistered(actorType)
	}
	return manager, nil
}

// Config returns the configuration document served to the sidecar
func (r *Runtime) Config() *config.Document {
	types := r.Types()
	entities := make([]config.Entity, 0, len(types))
	for _, actorType := range types {
		override, _ := r.overrides.Get(actorType)
		entities = append(entities, config.Entity{Type: actorType, Reentrancy: override})
	}
	return r.config.Document(entities...)
}

// Logger returns the runtime logger
func (r *Runtime) Logger() log.Logger {
	return r.logger
}

// Activate activates an actor
func (r *Runtime) Activate(ctx context.Context, actorType, actorID string) error {
	manager, err := r.lookup(actorType)
	if err != nil {
		return err
	}
	return manager.Activate(ctx, actorID)
}

// Deactivate deactivates an actor. It is a no-op when the actor is not live.
func (r *Runtime) Deactivate(ctx context.Context, actorType, actorID string) error {
	manager, err := r.Manager(actorType)
	if err != nil {
		return err
	}
	return manager.Deactivate(ctx, actorID)
}

// InvokeMethod invokes an actor method, activating the actor when needed.
func (r *Runtime) InvokeMethod(ctx context.Context, actorType, actorID, method string, payload []byte) ([]byte, error) {
	manager, err := r.lookup(actorType)
	if err != nil {
		return nil, err
	}

	if err := manager.Activate(ctx, actorID); err != nil {
		return nil, err
	}
	return manager.InvokeMethod(ctx, actorID, method, payload)
}

// InvokeTimer fires an actor timer. Timers belong to an activation, hence the
// actor must be live.
func (r *Runtime) InvokeTimer(ctx context.Context, actorType, actorID, timer string) error {
	manager, err := r.lookup(actorType)
	if err != nil {
		return err
	}
	return manager.InvokeTimer(ctx, actorID, timer)
}

// InvokeReminder delivers a reminder, activating the actor when needed.
// It is a no-op for actor types that are not remindable.
func (r *Runtime) InvokeReminder(ctx context.Context, actorType, actorID, reminder string, params []byte) error {
	manager, err := r.lookup(actorType)
	if err != nil {
		return err
	}

	if !manager.rc.info.Remindable() {
		return manager.InvokeReminder(ctx, actorID, reminder, params)
	}

	if err := manager.Activate(ctx, actorID); err != nil {
		return err
	}
	return manager.InvokeReminder(ctx, actorID, reminder, params)
}

// Shutdown deactivates every live actor and stops the scheduler when it can be
// stopped. The drain is bounded by the configured drain timeout when ctx has no
// deadline. The runtime cannot be used afterwards.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if !r.stopped.CompareAndSwap(false, true) {
		return nil
	}

	r.logger.Info("Shutting down the actor runtime ...")

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.DrainOngoingCallTimeout)
		defer cancel()
	}

	managers := r.managers.Values()
	errs := make([]error, len(managers))
	eg, gctx := errgroup.WithContext(ctx)
	for i, manager := range managers {
		eg.Go(func() error {
			errs[i] = manager.DeactivateAll(gctx)
			return nil
		})
	}
	_ = eg.Wait()

	err := multierr.Combine(errs...)
	if stopper, ok := r.scheduler.(interface{ Stop(context.Context) error }); ok {
		err = multierr.Append(err, stopper.Stop(ctx))
	}

	if err != nil {
		r.logger.Errorf("Actor runtime shutdown failed: %v", err)
		return err
	}

	r.logger.Info("Actor runtime successfully shut down.")
	return nil
}

func (r *Runtime) lookup(actorType string) (*Manager, error) {
	if r.stopped.Load() {
		return nil, gerrors.ErrRuntimeShutdown
	}
	return r.Manager(actorType)
}
