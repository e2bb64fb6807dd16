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

package reentrancy

import (
	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/internal/validation"
)

// DefaultMaxStackDepth is the default maximum number of nested calls a single
// reentrant call chain may open on one actor.
const DefaultMaxStackDepth = 32

// Option configures reentrancy behavior.
type Option func(*Config)

// WithEnabled turns reentrancy on or off.
//
// When reentrancy is off every call is treated as a plain non-reentrant call:
// reentrancy ids carried by the request are ignored and calls to one actor
// run strictly one at a time.
func WithEnabled(enabled bool) Option {
	return func(c *Config) {
		c.enabled = enabled
	}
}

// WithMaxStackDepth caps how deep a single reentrant call chain may nest on one actor.
//
// A value of zero disables the limit. Negative values are rejected by Validate.
func WithMaxStackDepth(depth int) Option {
	return func(c *Config) {
		c.maxStackDepth = depth
	}
}

// Config configures actor reentrancy for an actor type or a whole runtime.
type Config struct {
	enabled       bool
	maxStackDepth int
}

// ensure Config implements validation.Validator.
var _ validation.Validator = (*Config)(nil)

// New creates a new Config with the provided options.
// Reentrancy is disabled by default.
func New(opts ...Option) *Config {
	c := &Config{
		enabled:       false,
		maxStackDepth: DefaultMaxStackDepth,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether reentrancy is enabled.
func (c *Config) Enabled() bool {
	return c != nil && c.enabled
}

// MaxStackDepth returns the maximum depth of a reentrant call chain. Zero means unbounded.
func (c *Config) MaxStackDepth() int {
	if c == nil {
		return 0
	}
	return c.maxStackDepth
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.maxStackDepth < 0 {
		return gerrors.ErrInvalidStackDepth
	}
	return nil
}
