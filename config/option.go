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

package config

import (
	"time"

	"github.com/tochemey/vactor/reentrancy"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Config)

// Apply applies the option to the config
func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithActorIdleTimeout sets the actor idle timeout
func WithActorIdleTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.ActorIdleTimeout = timeout
	})
}

// WithActorScanInterval sets the idle actors scan interval
func WithActorScanInterval(interval time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.ActorScanInterval = interval
	})
}

// WithDrainOngoingCallTimeout sets the drain timeout of in-flight calls
func WithDrainOngoingCallTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.DrainOngoingCallTimeout = timeout
	})
}

// WithDrainRebalancedActors sets whether rebalanced actors are drained
func WithDrainRebalancedActors(drain bool) Option {
	return OptionFunc(func(config *Config) {
		config.DrainRebalancedActors = drain
	})
}

// WithRemindersStoragePartitions sets the number of reminders storage partitions
func WithRemindersStoragePartitions(partitions int) Option {
	return OptionFunc(func(config *Config) {
		config.RemindersStoragePartitions = partitions
	})
}

// WithReentrancy sets the runtime wide reentrancy configuration
func WithReentrancy(reentrancy *reentrancy.Config) Option {
	return OptionFunc(func(config *Config) {
		config.Reentrancy = reentrancy
	})
}
