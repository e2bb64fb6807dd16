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

package state

import (
	"context"
	"strings"
)

// KeySeparator joins the parts of a state key in a key/value store.
const KeySeparator = "||"

// Provider defines the contract of the remote key/value store backing actor state.
//
// Implementations must be safe for concurrent use: many actor instances of many
// types share one provider. Apply must be atomic: either every change of the
// batch is persisted or none is.
type Provider interface {
	// Load returns the value of a state name.
	// It returns an error wrapping errors.ErrStateNotFound when the name does not exist.
	Load(ctx context.Context, actorType, actorID, name string) ([]byte, error)
	// Contains reports whether a state name exists.
	Contains(ctx context.Context, actorType, actorID, name string) (bool, error)
	// Apply persists an ordered batch of changes in a single transaction.
	// Changes of kind None are never part of the batch.
	Apply(ctx context.Context, actorType, actorID string, changes []Change) error
}

// Key builds the key under which a state name is stored.
//
// Example: Key("Counter", "c1", "count") => "Counter||c1||count"
func Key(actorType, actorID, name string) string {
	var b strings.Builder
	b.Grow(len(actorType) + len(actorID) + len(name) + 2*len(KeySeparator))
	b.WriteString(actorType)
	b.WriteString(KeySeparator)
	b.WriteString(actorID)
	b.WriteString(KeySeparator)
	b.WriteString(name)
	return b.String()
}
