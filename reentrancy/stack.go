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
	"slices"

	gerrors "github.com/tochemey/vactor/errors"
)

// Stack tracks the nesting depth of the call chain currently running on one
// actor and the reentrancy id that owns it. A nil id stands for a plain
// non-reentrant call.
//
// States:
//   - Idle: depth 0, nothing restricts entry.
//   - Open(id, depth>=1): only the owning reentrant chain may nest further.
//
// Stack is not safe for concurrent use; Context serializes access to it.
type Stack struct {
	id    *string
	depth int
	// calls waiting for the stack, in arrival order
	waiters []*waiter
}

// waiter is a call queued on a busy stack. ready is closed once the stack has
// been handed over to it.
type waiter struct {
	id       *string
	ready    chan struct{}
	admitted bool
}

func newStack() *Stack {
	return &Stack{}
}

// handOff opens the idle stack for the oldest waiter. It reports false when
// nobody waits.
func (s *Stack) handOff() bool {
	if len(s.waiters) == 0 {
		return false
	}

	next := s.waiters[0]
	s.waiters[0] = nil
	s.waiters = s.waiters[1:]
	s.id = cloneID(next.id)
	s.depth = 1
	next.admitted = true
	close(next.ready)
	return true
}

// dequeue removes a waiter that gave up
func (s *Stack) dequeue(w *waiter) {
	s.waiters = slices.DeleteFunc(s.waiters, func(queued *waiter) bool { return queued == w })
}

// StartOrIncrease opens the stack for id or nests one level deeper.
//
// From Idle it always succeeds. From Open it succeeds only when both the open
// id and id are set and equal: two plain non-reentrant calls never nest.
// Any other combination is a protocol violation reported as ErrIllegalState.
func (s *Stack) StartOrIncrease(id *string) error {
	if s.depth == 0 {
		s.id = cloneID(id)
		s.depth = 1
		return nil
	}

	if s.id == nil || id == nil || *s.id != *id {
		return gerrors.NewErrIllegalState("cannot nest call chain %s into open chain %s", describe(id), describe(s.id))
	}

	s.depth++
	return nil
}

// EndOrDecrement closes one nesting level of the chain owning the stack.
//
// id must match the open id: both nil or both set and equal. Calling it on an
// Idle stack or with a mismatched id yields ErrIllegalState.
func (s *Stack) EndOrDecrement(id *string) error {
	if s.depth == 0 {
		return gerrors.NewErrIllegalState("cannot end call chain %s: stack is idle", describe(id))
	}

	if !sameID(s.id, id) {
		return gerrors.NewErrIllegalState("cannot end call chain %s: open chain is %s", describe(id), describe(s.id))
	}

	s.depth--
	if s.depth == 0 {
		s.id = nil
	}
	return nil
}

// IsOpen reports whether the stack is accessible to id: always true while
// Idle, otherwise true only when id matches the open id.
func (s *Stack) IsOpen(id *string) bool {
	if s.depth == 0 {
		return true
	}
	return sameID(s.id, id)
}

// InProgress reports whether a call chain is running, whatever its id.
func (s *Stack) InProgress() bool {
	return s.depth > 0
}

// Depth returns the current nesting depth
func (s *Stack) Depth() int {
	return s.depth
}

// ID returns the open reentrancy id. The boolean is false while Idle or when
// the open chain is non-reentrant.
func (s *Stack) ID() (string, bool) {
	if s.depth == 0 || s.id == nil {
		return "", false
	}
	return *s.id, true
}

// admits reports whether a call carrying id may enter right now.
func (s *Stack) admits(id *string) bool {
	if s.depth == 0 {
		return true
	}
	return id != nil && s.id != nil && *id == *s.id
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func describe(id *string) string {
	if id == nil {
		return "<none>"
	}
	return "'" + *id + "'"
}
