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

// Package config holds the actor runtime configuration advertised to the sidecar.
package config

import (
	"time"

	"github.com/tochemey/vactor/internal/validation"
	"github.com/tochemey/vactor/reentrancy"
)

const (
	// DefaultActorIdleTimeout is the default idle period after which the sidecar deactivates an actor
	DefaultActorIdleTimeout = 60 * time.Minute
	// DefaultActorScanInterval is the default interval at which the sidecar scans for idle actors
	DefaultActorScanInterval = 30 * time.Second
	// DefaultDrainOngoingCallTimeout is the default time given to in-flight calls when draining
	DefaultDrainOngoingCallTimeout = 60 * time.Second
)

// Config defines the actor runtime configuration
type Config struct {
	// ActorIdleTimeout specifies how long an actor may stay idle before it is deactivated.
	// The default value is 60m
	ActorIdleTimeout time.Duration
	// ActorScanInterval specifies how often idle actors are looked for.
	// The default value is 30s
	ActorScanInterval time.Duration
	// DrainOngoingCallTimeout specifies how long in-flight calls are given to
	// complete when actors are drained. It also bounds the runtime shutdown.
	// The default value is 60s
	DrainOngoingCallTimeout time.Duration
	// DrainRebalancedActors specifies whether rebalanced actors are drained.
	// The default value is true
	DrainRebalancedActors bool
	// RemindersStoragePartitions specifies the number of partitions used to store reminders.
	// The default value is 0
	RemindersStoragePartitions int
	// Reentrancy is the runtime wide reentrancy configuration.
	// Reentrancy is disabled by default
	Reentrancy *reentrancy.Config
}

// enforce compilation error
var _ validation.Validator = (*Config)(nil)

// New creates an instance of Config
func New(options ...Option) (*Config, error) {
	config := Default()
	for _, opt := range options {
		opt.Apply(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		ActorIdleTimeout:           DefaultActorIdleTimeout,
		ActorScanInterval:          DefaultActorScanInterval,
		DrainOngoingCallTimeout:    DefaultDrainOngoingCallTimeout,
		DrainRebalancedActors:      true,
		RemindersStoragePartitions: 0,
		Reentrancy:                 reentrancy.New(),
	}
}

// Validate implements validation.Validator
func (c *Config) Validate() error {
	chain := validation.New().
		AddAssertion(c.ActorIdleTimeout > 0, "actor idle timeout must be greater than zero").
		AddAssertion(c.ActorScanInterval > 0, "actor scan interval must be greater than zero").
		AddAssertion(c.DrainOngoingCallTimeout > 0, "drain ongoing call timeout must be greater than zero").
		AddAssertion(c.RemindersStoragePartitions >= 0, "reminders storage partitions must not be negative")

	if c.Reentrancy != nil {
		chain.AddValidator(c.Reentrancy)
	}
	return chain.Validate()
}
