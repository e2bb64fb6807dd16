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
	"github.com/tochemey/vactor/config"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/reentrancy"
	"github.com/tochemey/vactor/serializer"
	"github.com/tochemey/vactor/state"
	"github.com/tochemey/vactor/telemetry"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a runtime.
	Apply(runtime *Runtime)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Runtime)

// Apply implements Option
func (f OptionFunc) Apply(r *Runtime) {
	f(r)
}

// WithLogger sets the runtime logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(r *Runtime) {
		r.logger = logger
	})
}

// WithSerializer sets the default serializer of the actor types.
// The default is JSON.
func WithSerializer(codec serializer.Serializer) Option {
	return OptionFunc(func(r *Runtime) {
		r.serializer = codec
	})
}

// WithStateProvider sets the default state provider of the actor types.
// The default is an in-memory provider.
func WithStateProvider(provider state.Provider) Option {
	return OptionFunc(func(r *Runtime) {
		r.provider = provider
	})
}

// WithScheduler sets the timers and reminders scheduler.
// By default registrations are accepted and left to the sidecar.
func WithScheduler(scheduler Scheduler) Option {
	return OptionFunc(func(r *Runtime) {
		r.scheduler = scheduler
	})
}

// WithTelemetry sets the telemetry providers
func WithTelemetry(telemetry *telemetry.Telemetry) Option {
	return OptionFunc(func(r *Runtime) {
		r.telemetry = telemetry
	})
}

// WithConfig sets the runtime configuration
func WithConfig(config *config.Config) Option {
	return OptionFunc(func(r *Runtime) {
		r.config = config
	})
}

// typeSettings holds the per actor type settings
type typeSettings struct {
	serializer serializer.Serializer
	provider   state.Provider
	reentrancy *reentrancy.Config
}

// TypeOption configures one actor type at registration.
type TypeOption interface {
	// Apply sets the TypeOption value of the type settings.
	Apply(settings *typeSettings)
}

// enforce compilation error
var _ TypeOption = TypeOptionFunc(nil)

// TypeOptionFunc implements the TypeOption interface.
type TypeOptionFunc func(*typeSettings)

// Apply implements TypeOption
func (f TypeOptionFunc) Apply(s *typeSettings) {
	f(s)
}

// WithTypeSerializer overrides the serializer of the actor type
func WithTypeSerializer(codec serializer.Serializer) TypeOption {
	return TypeOptionFunc(func(s *typeSettings) {
		s.serializer = codec
	})
}

// WithTypeStateProvider overrides the state provider of the actor type
func WithTypeStateProvider(provider state.Provider) TypeOption {
	return TypeOptionFunc(func(s *typeSettings) {
		s.provider = provider
	})
}

// WithTypeReentrancy overrides the reentrancy configuration of the actor type
func WithTypeReentrancy(reentrancy *reentrancy.Config) TypeOption {
	return TypeOptionFunc(func(s *typeSettings) {
		s.reentrancy = reentrancy
	})
}
