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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundFamily(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "actor", err: NewErrActorNotFound("Counter", "a"), want: true},
		{name: "method", err: NewErrMethodNotFound("Counter", "Inc"), want: true},
		{name: "timer", err: NewErrTimerNotFound("a", "tick"), want: true},
		{name: "state", err: NewErrStateNotFound("count"), want: true},
		{name: "type", err: NewErrTypeNotRegistered("Counter"), want: true},
		{name: "conflict", err: NewErrStateConflict("count"), want: false},
		{name: "illegal state", err: NewErrIllegalState("id mismatch"), want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsNotFound(tc.err))
		})
	}
}

func TestNewErrIllegalState(t *testing.T) {
	err := NewErrIllegalState("open id %q, got %q", "x", "y")
	require.ErrorIs(t, err, ErrIllegalState)
	assert.Contains(t, err.Error(), `open id "x", got "y"`)
}

func TestNewErrActivation(t *testing.T) {
	cause := errors.New("boom")
	err := NewErrActivation(cause)
	require.ErrorIs(t, err, ErrActivation)
	require.ErrorIs(t, err, cause)
}

func TestBusinessError(t *testing.T) {
	require.NoError(t, NewBusinessError(nil))

	cause := errors.New("insufficient funds")
	err := NewBusinessError(cause)
	var be *BusinessError
	require.ErrorAs(t, err, &be)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "insufficient funds", err.Error())

	// wrapping twice keeps a single layer
	again := NewBusinessError(fmt.Errorf("ctx: %w", err))
	require.ErrorAs(t, again, &be)
	assert.Equal(t, "ctx: insufficient funds", again.Error())
}

func TestPanicError(t *testing.T) {
	cause := errors.New("nil map")
	err := NewPanicError(cause)
	assert.Equal(t, "panic: nil map", err.Error())
	require.ErrorIs(t, err, cause)
}
