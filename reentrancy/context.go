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
	"context"
	"sync"

	gerrors "github.com/tochemey/vactor/errors"
)

// Context is the process-wide reentrancy table mapping each actor instance
// Key to its Stack. Stacks are created on first use and evicted once their
// depth returns to zero with no call waiting; creation, hand-off, eviction and
// the lookups that trigger them happen under one lock.
type Context struct {
	mu     sync.Mutex
	stacks map[Key]*Stack
}

// NewContext creates an empty reentrancy table
func NewContext() *Context {
	return &Context{stacks: make(map[Key]*Stack)}
}

// Track opens or nests the call chain id on the given actor. It never waits:
// a conflicting chain yields ErrIllegalState.
func (c *Context) Track(actorID, actorType string, id *string) error {
	key := NewKey(actorID, actorType)

	c.mu.Lock()
	defer c.mu.Unlock()

	stack, ok := c.stacks[key]
	if !ok {
		stack = newStack()
		c.stacks[key] = stack
	}
	return stack.StartOrIncrease(id)
}

// Release closes one nesting level of the call chain id on the given actor,
// handing the actor over to the oldest waiting call or evicting the stack
// when it becomes idle.
func (c *Context) Release(actorID, actorType string, id *string) error {
	return c.release(NewKey(actorID, actorType), id)
}

// ReentrancyID returns the id of the reentrant chain currently open on the
// given actor. The boolean is false when the actor is idle or runs a
// non-reentrant call.
func (c *Context) ReentrancyID(actorID, actorType string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stack, ok := c.stacks[NewKey(actorID, actorType)]
	if !ok {
		return "", false
	}
	return stack.ID()
}

// IsOpen reports whether the given actor is accessible to the call chain id.
func (c *Context) IsOpen(actorID, actorType string, id *string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	stack, ok := c.stacks[NewKey(actorID, actorType)]
	if !ok {
		return true
	}
	return stack.IsOpen(id)
}

// InProgress reports whether any call chain is running on the given actor.
func (c *Context) InProgress(actorID, actorType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	stack, ok := c.stacks[NewKey(actorID, actorType)]
	return ok && stack.InProgress()
}

// Len returns the number of actors with a call chain in progress
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stacks)
}

// Acquire admits a call carrying id on key. A call nesting into the chain
// open on the actor enters at once; any other call waits for the actor to be
// idle, and waiting calls are admitted one at a time in arrival order.
// maxDepth > 0 bounds how deep one reentrant chain may nest; exceeding it
// fails with ErrMaxStackDepthExceeded instead of waiting.
//
// Every successful Acquire must be paired with a Done call carrying the same id.
func (c *Context) Acquire(ctx context.Context, key Key, id *string, maxDepth int) error {
	c.mu.Lock()
	stack, ok := c.stacks[key]
	if !ok {
		stack = newStack()
		c.stacks[key] = stack
	}

	if stack.admits(id) {
		defer c.mu.Unlock()
		if maxDepth > 0 && stack.depth >= maxDepth {
			return gerrors.ErrMaxStackDepthExceeded
		}
		return stack.StartOrIncrease(id)
	}

	w := &waiter{id: cloneID(id), ready: make(chan struct{})}
	stack.waiters = append(stack.waiters, w)
	c.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
	}

	c.mu.Lock()
	admitted := w.admitted
	if !admitted {
		stack.dequeue(w)
	}
	c.mu.Unlock()

	if admitted {
		// handed over while giving up: pass the actor on
		_ = c.release(key, id)
	}
	return ctx.Err()
}

// Done releases a call previously admitted by Acquire.
func (c *Context) Done(key Key, id *string) error {
	return c.release(key, id)
}

func (c *Context) release(key Key, id *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stack, ok := c.stacks[key]
	if !ok {
		return gerrors.NewErrIllegalState("cannot end call chain %s on %s: no call chain in progress", describe(id), key.String())
	}

	if err := stack.EndOrDecrement(id); err != nil {
		return err
	}

	if !stack.InProgress() && !stack.handOff() {
		delete(c.stacks, key)
	}
	return nil
}
