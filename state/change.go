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
	"time"
)

// ChangeKind describes how a cached state entry differs from the state provider.
type ChangeKind int

const (
	// None means the entry matches the state provider.
	None ChangeKind = iota
	// Add means the entry does not exist in the state provider yet.
	Add
	// Update means the entry exists in the state provider with a different value.
	Update
	// Remove means the entry must be deleted from the state provider.
	Remove
)

// String returns the string representation of the change kind
func (k ChangeKind) String() string {
	switch k {
	case None:
		return "none"
	case Add:
		return "add"
	case Update:
		return "update"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// Operation is the transactional operation a change translates into.
type Operation string

const (
	// Upsert writes the value of an added or updated entry.
	Upsert Operation = "upsert"
	// Delete deletes a removed entry.
	Delete Operation = "delete"
)

// Change is one entry of the batch submitted to a Provider when state is saved.
type Change struct {
	// Name is the state name
	Name string
	// Kind is the pending change
	Kind ChangeKind
	// Value is the serialized value. Nil for Remove.
	Value []byte
	// ExpiresAt is the absolute expiration. Nil means the entry never expires.
	ExpiresAt *time.Time
}

// Operation returns the transactional operation of the change.
// None has no operation and returns an empty string.
func (c Change) Operation() Operation {
	switch c.Kind {
	case Add, Update:
		return Upsert
	case Remove:
		return Delete
	default:
		return ""
	}
}

// Expired reports whether the change carries an expiration that is already
// behind now.
func (c Change) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
