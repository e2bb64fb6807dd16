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

package server

import (
	"time"

	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/telemetry"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a server.
	Apply(server *Server)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Server)

// Apply applies the option
func (f OptionFunc) Apply(s *Server) {
	f(s)
}

// WithAddress sets the listen address, host:port. A zero port picks a free one.
func WithAddress(address string) Option {
	return OptionFunc(func(s *Server) {
		s.address = address
	})
}

// WithLogger sets the server logger. Defaults to the runtime logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *Server) {
		s.logger = logger
	})
}

// WithTelemetry sets the telemetry providers of the HTTP instrumentation
func WithTelemetry(telemetry *telemetry.Telemetry) Option {
	return OptionFunc(func(s *Server) {
		s.telemetry = telemetry
	})
}

// WithMaxFrameSize sets the HTTP/2 max read frame size
func WithMaxFrameSize(size uint32) Option {
	return OptionFunc(func(s *Server) {
		s.maxFrameSize = size
	})
}

// WithMaxBodySize bounds the size of request bodies
func WithMaxBodySize(size int64) Option {
	return OptionFunc(func(s *Server) {
		s.maxBodySize = size
	})
}

// WithIdleTimeout sets the idle timeout of client connections
func WithIdleTimeout(timeout time.Duration) Option {
	return OptionFunc(func(s *Server) {
		s.idleTimeout = timeout
	})
}
