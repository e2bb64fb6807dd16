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
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/atomic"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tochemey/vactor/actor"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/telemetry"
)

const (
	// DefaultAddress is the default listen address of the actor host
	DefaultAddress = "127.0.0.1:3000"
	// DefaultMaxFrameSize is the default HTTP/2 frame size
	DefaultMaxFrameSize uint32 = 1 << 20
	// DefaultMaxBodySize bounds the request bodies
	DefaultMaxBodySize int64 = 4 << 20
)

// Server exposes an actor runtime to the sidecar over HTTP/2 cleartext.
type Server struct {
	runtime      *actor.Runtime
	address      string
	logger       log.Logger
	telemetry    *telemetry.Telemetry
	maxFrameSize uint32
	maxBodySize  int64
	idleTimeout  time.Duration

	server   *http.Server
	listener net.Listener
	started  atomic.Bool
	serveErr chan error
}

// New creates an instance of Server
func New(runtime *actor.Runtime, opts ...Option) *Server {
	server := &Server{
		runtime:      runtime,
		address:      DefaultAddress,
		logger:       runtime.Logger(),
		maxFrameSize: DefaultMaxFrameSize,
		maxBodySize:  DefaultMaxBodySize,
		idleTimeout:  1200 * time.Second,
	}

	for _, opt := range opts {
		opt.Apply(server)
	}

	if server.telemetry == nil {
		server.telemetry = telemetry.New()
	}
	return server
}

// Handler returns the HTTP handler of the actor host
func (x *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	x.routes(mux)

	handler := otelhttp.NewHandler(mux, "actor-host",
		otelhttp.WithTracerProvider(x.telemetry.TraceProvider()),
		otelhttp.WithMeterProvider(x.telemetry.MeterProvider()),
	)

	return h2c.NewHandler(handler, &http2.Server{
		MaxConcurrentStreams: 1000,
		MaxReadFrameSize:     x.maxFrameSize,
		IdleTimeout:          x.idleTimeout,
	})
}

// Start starts listening. Requests are served in the background until Stop.
func (x *Server) Start(ctx context.Context) error {
	if x.started.Load() {
		return nil
	}

	listenConfig := net.ListenConfig{KeepAlive: 30 * time.Second}
	listener, err := listenConfig.Listen(ctx, "tcp", x.address)
	if err != nil {
		return err
	}

	x.listener = listener
	x.server = &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           x.Handler(),
		ReadTimeout:       5 * time.Minute,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       x.idleTimeout,
		MaxHeaderBytes:    8 * 1024,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	x.serveErr = make(chan error, 1)
	go func() {
		if err := x.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			x.logger.Errorf("actor host server failed: %v", err)
			x.serveErr <- err
		}
		close(x.serveErr)
	}()

	x.started.Store(true)
	x.logger.Infof("actor host listening on %s", listener.Addr().String())
	return nil
}

// Addr returns the address the server listens on
func (x *Server) Addr() string {
	if x.listener == nil {
		return x.address
	}
	return x.listener.Addr().String()
}

// Stop stops accepting requests, waits for the in-flight ones then shuts the
// actor runtime down.
func (x *Server) Stop(ctx context.Context) error {
	if !x.started.CompareAndSwap(true, false) {
		return x.runtime.Shutdown(ctx)
	}

	x.logger.Info("stopping actor host...")
	if err := x.server.Shutdown(ctx); err != nil {
		return err
	}

	if err := <-x.serveErr; err != nil {
		return err
	}

	if err := x.runtime.Shutdown(ctx); err != nil {
		return err
	}

	x.logger.Info("actor host stopped.")
	return nil
}
