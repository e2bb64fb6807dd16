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
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/reentrancy"
)

const (
	// ReentrancyHeader carries the id of the call chain a request belongs to
	ReentrancyHeader = "Dapr-Reentrancy-Id"
	// BusinessErrorHeader flags an error raised by the actor code
	BusinessErrorHeader = "X-DaprErrorResponseHeader"

	contentTypeHeader = "Content-Type"
	jsonContentType   = "application/json"
)

// errorResponse is the body of failed requests
type errorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func (x *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", x.handle(x.healthz))
	mux.HandleFunc("GET /dapr/config", x.handle(x.config))
	mux.HandleFunc("DELETE /actors/{actorType}/{actorID}", x.handle(x.deactivate))
	mux.HandleFunc("PUT /actors/{actorType}/{actorID}/method/{method}", x.handle(x.invokeMethod))
	mux.HandleFunc("PUT /actors/{actorType}/{actorID}/method/timer/{timer}", x.handle(x.invokeTimer))
	mux.HandleFunc("PUT /actors/{actorType}/{actorID}/method/remind/{reminder}", x.handle(x.invokeReminder))
}

// handle names the request span after the route and carries the reentrancy
// id of the request into the context
func (x *Server) handle(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trace.SpanFromContext(r.Context()).SetName(r.Method + " " + r.Pattern)

		if id := r.Header.Get(ReentrancyHeader); id != "" {
			r = r.WithContext(reentrancy.WithID(r.Context(), id))
		}
		h(w, r)
	}
}

func (x *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (x *Server) config(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(contentTypeHeader, jsonContentType)
	if err := json.NewEncoder(w).Encode(x.runtime.Config()); err != nil {
		x.logger.Errorf("failed to write the actor configuration: %v", err)
	}
}

func (x *Server) deactivate(w http.ResponseWriter, r *http.Request) {
	if err := x.runtime.Deactivate(r.Context(), r.PathValue("actorType"), r.PathValue("actorID")); err != nil {
		x.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (x *Server) invokeMethod(w http.ResponseWriter, r *http.Request) {
	payload, err := x.readBody(w, r)
	if err != nil {
		x.writeError(w, err)
		return
	}

	out, err := x.runtime.InvokeMethod(r.Context(), r.PathValue("actorType"), r.PathValue("actorID"), r.PathValue("method"), payload)
	if err != nil {
		x.writeError(w, err)
		return
	}

	w.Header().Set(contentTypeHeader, jsonContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		x.logger.Warnf("failed to write the method response: %v", err)
	}
}

func (x *Server) invokeTimer(w http.ResponseWriter, r *http.Request) {
	// the timer is known by the activation: the body is not needed
	if _, err := x.readBody(w, r); err != nil {
		x.writeError(w, err)
		return
	}

	if err := x.runtime.InvokeTimer(r.Context(), r.PathValue("actorType"), r.PathValue("actorID"), r.PathValue("timer")); err != nil {
		x.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (x *Server) invokeReminder(w http.ResponseWriter, r *http.Request) {
	params, err := x.readBody(w, r)
	if err != nil {
		x.writeError(w, err)
		return
	}

	if err := x.runtime.InvokeReminder(r.Context(), r.PathValue("actorType"), r.PathValue("actorID"), r.PathValue("reminder"), params); err != nil {
		x.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (x *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, x.maxBodySize))
}

func (x *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		x.logger.Error(err)
	}

	var be *gerrors.BusinessError
	if errors.As(err, &be) {
		w.Header().Set(BusinessErrorHeader, "true")
	}

	w.Header().Set(contentTypeHeader, jsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&errorResponse{ErrorCode: code, Message: err.Error()})
}

// statusOf maps an error to its HTTP status and error code
func statusOf(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "ERR_BODY_TOO_LARGE"
	case gerrors.IsNotFound(err):
		return http.StatusNotFound, "ERR_ACTOR_NOT_FOUND"
	case errors.Is(err, gerrors.ErrInvalidActorID),
		errors.Is(err, gerrors.ErrInvalidActorType):
		return http.StatusBadRequest, "ERR_MALFORMED_REQUEST"
	case errors.Is(err, gerrors.ErrMaxStackDepthExceeded),
		errors.Is(err, gerrors.ErrIllegalState):
		return http.StatusConflict, "ERR_ACTOR_REENTRANCY"
	case errors.Is(err, gerrors.ErrRuntimeShutdown):
		return http.StatusServiceUnavailable, "ERR_ACTOR_RUNTIME_SHUTDOWN"
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "ERR_ACTOR_CALL_CANCELLED"
	default:
		return http.StatusInternalServerError, "ERR_ACTOR_INVOKE_METHOD"
	}
}
