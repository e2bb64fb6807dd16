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
	"sync"
	"time"

	gerrors "github.com/tochemey/vactor/errors"
)

type record struct {
	value     []byte
	expiresAt *time.Time
}

// MemoryProvider is an in-memory Provider.
// It honours expirations and applies batches atomically under a single lock.
type MemoryProvider struct {
	mu      sync.RWMutex
	records map[string]record
	clock   func() time.Time
}

// enforce compilation error
var _ Provider = (*MemoryProvider)(nil)

// NewMemoryProvider creates an instance of MemoryProvider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		records: make(map[string]record),
		clock:   time.Now,
	}
}

// Load implements Provider
func (p *MemoryProvider) Load(_ context.Context, actorType, actorID, name string) ([]byte, error) {
	p.mu.RLock()
	rec, ok := p.records[Key(actorType, actorID, name)]
	p.mu.RUnlock()

	if !ok || p.expired(rec) {
		return nil, gerrors.NewErrStateNotFound(name)
	}
	return rec.value, nil
}

// Contains implements Provider
func (p *MemoryProvider) Contains(_ context.Context, actorType, actorID, name string) (bool, error) {
	p.mu.RLock()
	rec, ok := p.records[Key(actorType, actorID, name)]
	p.mu.RUnlock()
	return ok && !p.expired(rec), nil
}

// Apply implements Provider
func (p *MemoryProvider) Apply(ctx context.Context, actorType, actorID string, changes []Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, change := range changes {
		key := Key(actorType, actorID, change.Name)
		switch change.Operation() {
		case Upsert:
			value := make([]byte, len(change.Value))
			copy(value, change.Value)
			p.records[key] = record{value: value, expiresAt: change.ExpiresAt}
		case Delete:
			delete(p.records, key)
		}
	}
	return nil
}

// Len returns the number of stored records, expired ones included
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

// Reset removes every record
func (p *MemoryProvider) Reset() {
	p.mu.Lock()
	clear(p.records)
	p.mu.Unlock()
}

func (p *MemoryProvider) expired(rec record) bool {
	return rec.expiresAt != nil && p.clock().After(*rec.expiresAt)
}
