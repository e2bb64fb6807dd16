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

package redis

import (
	"time"

	"github.com/tochemey/vactor/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a provider.
	Apply(provider *Provider)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Provider)

// Apply implements Option
func (f OptionFunc) Apply(p *Provider) {
	f(p)
}

// WithKeyPrefix prefixes every state key, e.g. with the application id.
func WithKeyPrefix(prefix string) Option {
	return OptionFunc(func(p *Provider) {
		p.prefix = prefix
	})
}

// WithLogger sets the provider logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(p *Provider) {
		p.logger = logger
	})
}

// WithRetry sets the number of attempts made to apply a batch and the initial
// delay between attempts.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return OptionFunc(func(p *Provider) {
		if maxRetries > 0 {
			p.maxRetries = maxRetries
		}
		if delay > 0 {
			p.retryDelay = delay
		}
	})
}
