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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrActorNotFound is returned when the targeted actor is not live in its actor manager.
	ErrActorNotFound = errors.New("actor not found")

	// ErrMethodNotFound is returned when a method name cannot be resolved for an actor type.
	ErrMethodNotFound = errors.New("actor method not found")

	// ErrTimerNotFound is returned when a timer is not registered on a live actor.
	ErrTimerNotFound = errors.New("actor timer not found")

	// ErrStateNotFound is returned when a state name is absent from both the cache and the state provider.
	ErrStateNotFound = errors.New("actor state not found")

	// ErrTypeNotRegistered is returned when attempting to use an unregistered actor type.
	ErrTypeNotRegistered = errors.New("actor type is not registered")

	// ErrTypeAlreadyRegistered is returned when an actor type is registered twice with the same runtime.
	ErrTypeAlreadyRegistered = errors.New("actor type is already registered")

	// ErrStateConflict is returned when adding a state name that already exists.
	ErrStateConflict = errors.New("actor state already exists")

	// ErrDuplicateMethod is returned when two methods of an actor type resolve to the same name.
	ErrDuplicateMethod = errors.New("duplicate actor method")

	// ErrIllegalState indicates a reentrancy protocol violation: mismatched ids or an idle stack decrement.
	// It is not retryable.
	ErrIllegalState = errors.New("illegal reentrancy state")

	// ErrMaxStackDepthExceeded is returned when a reentrant call chain nests deeper than allowed.
	ErrMaxStackDepthExceeded = errors.New("maximum reentrancy stack depth exceeded")

	// ErrActivation is returned when an actor instance cannot be created or its activation hook fails.
	ErrActivation = errors.New("actor activation failed")

	// ErrDeactivation is returned when the deactivation hook of an actor fails.
	ErrDeactivation = errors.New("actor deactivation failed")

	// ErrInvalidActorID is returned when an actor id is empty or malformed.
	ErrInvalidActorID = errors.New("invalid actor id")

	// ErrInvalidActorType is returned when an actor type name is empty or malformed.
	ErrInvalidActorType = errors.New("invalid actor type")

	// ErrInvalidMethod is returned when a method descriptor is malformed.
	ErrInvalidMethod = errors.New("invalid actor method")

	// ErrInvalidDuration is returned when a duration string cannot be parsed.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidStackDepth is returned when the reentrancy maximum stack depth is negative.
	ErrInvalidStackDepth = errors.New("invalid reentrancy stack depth")

	// ErrRuntimeShutdown is returned when the runtime has been shut down.
	ErrRuntimeShutdown = errors.New("actor runtime is shut down")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrUnsupportedType is returned when a serializer cannot handle a given value.
	ErrUnsupportedType = errors.New("unsupported type")
)

// NewErrActorNotFound formats an ErrActorNotFound with the given actor type and id.
func NewErrActorNotFound(actorType, actorID string) error {
	return fmt.Errorf("(actor=%s/%s) %w", actorType, actorID, ErrActorNotFound)
}

// NewErrMethodNotFound formats an ErrMethodNotFound with the given method name.
func NewErrMethodNotFound(actorType, method string) error {
	return fmt.Errorf("(type=%s method=%s) %w", actorType, method, ErrMethodNotFound)
}

// NewErrTimerNotFound formats an ErrTimerNotFound with the given timer name.
func NewErrTimerNotFound(actorID, timer string) error {
	return fmt.Errorf("(actor=%s timer=%s) %w", actorID, timer, ErrTimerNotFound)
}

// NewErrStateNotFound formats an ErrStateNotFound with the given state name.
func NewErrStateNotFound(name string) error {
	return fmt.Errorf("(state=%s) %w", name, ErrStateNotFound)
}

// NewErrStateConflict formats an ErrStateConflict with the given state name.
func NewErrStateConflict(name string) error {
	return fmt.Errorf("(state=%s) %w", name, ErrStateConflict)
}

// NewErrTypeNotRegistered formats an ErrTypeNotRegistered with the given actor type.
func NewErrTypeNotRegistered(actorType string) error {
	return fmt.Errorf("(type=%s) %w", actorType, ErrTypeNotRegistered)
}

// NewErrTypeAlreadyRegistered formats an ErrTypeAlreadyRegistered with the given actor type.
func NewErrTypeAlreadyRegistered(actorType string) error {
	return fmt.Errorf("(type=%s) %w", actorType, ErrTypeAlreadyRegistered)
}

// NewErrDuplicateMethod formats an ErrDuplicateMethod with the given method name.
func NewErrDuplicateMethod(actorType, method string) error {
	return fmt.Errorf("(type=%s method=%s) %w", actorType, method, ErrDuplicateMethod)
}

// NewErrIllegalState formats an ErrIllegalState with a description of the violation.
func NewErrIllegalState(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrIllegalState)
}

// NewErrActivation wraps a base error with ErrActivation to indicate an activation failure
func NewErrActivation(err error) error {
	return errors.Join(ErrActivation, err)
}

// NewErrDeactivation wraps a base error with ErrDeactivation to indicate a deactivation failure
func NewErrDeactivation(err error) error {
	return errors.Join(ErrDeactivation, err)
}

// NewErrInvalidDuration wraps the offending duration string with ErrInvalidDuration.
func NewErrInvalidDuration(value string) error {
	return fmt.Errorf("duration=(%s) %w", value, ErrInvalidDuration)
}

// IsNotFound reports whether err belongs to the not-found family of errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrActorNotFound) ||
		errors.Is(err, ErrMethodNotFound) ||
		errors.Is(err, ErrTimerNotFound) ||
		errors.Is(err, ErrStateNotFound) ||
		errors.Is(err, ErrTypeNotRegistered)
}

// BusinessError wraps any error raised by actor code: methods, timer callbacks
// and reminder receivers.
type BusinessError struct {
	err error
}

// enforce compilation error
var _ error = (*BusinessError)(nil)

// NewBusinessError returns an instance of BusinessError. An error that already
// wraps a BusinessError is returned unchanged.
func NewBusinessError(err error) error {
	if err == nil {
		return nil
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return err
	}
	return &BusinessError{err: err}
}

// Error implements the standard error interface
func (e *BusinessError) Error() string {
	return e.err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.err
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
