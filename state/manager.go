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
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/internal/validation"
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/serializer"
)

// entry is the cached view of one state name
type entry struct {
	kind      ChangeKind
	value     []byte
	expiresAt *time.Time
}

// Manager is the write-back state cache of one actor instance.
//
// Mutations are kept in memory until Save submits them to the Provider as a
// single transaction. Reads are served from the cache first and only reach the
// Provider for names the cache has never seen.
//
// A Manager is owned by one actor instance and is not safe for concurrent use.
type Manager struct {
	actorType  string
	actorID    string
	provider   Provider
	serializer serializer.Serializer
	logger     log.Logger
	clock      func() time.Time
	cache      map[string]*entry
}

// NewManager creates the state manager of the actor identified by actorType and actorID.
func NewManager(actorType, actorID string, provider Provider, codec serializer.Serializer, opts ...Option) *Manager {
	manager := &Manager{
		actorType:  actorType,
		actorID:    actorID,
		provider:   provider,
		serializer: codec,
		logger:     log.DiscardLogger,
		clock:      time.Now,
		cache:      make(map[string]*entry),
	}

	for _, opt := range opts {
		opt.Apply(manager)
	}

	if manager.serializer == nil {
		manager.serializer = serializer.Default()
	}
	return manager
}

// Add adds a new state name.
//
// It fails with errors.ErrStateConflict when the name already exists in the
// cache or in the Provider. A name pending removal, or whose cached value has
// expired, is overwritten and becomes an update.
func (m *Manager) Add(ctx context.Context, name string, value any, ttl time.Duration) error {
	if err := validateName(name); err != nil {
		return err
	}

	bytea, err := m.serializer.Serialize(value)
	if err != nil {
		return err
	}

	if cached, ok := m.cache[name]; ok {
		if cached.kind == Remove || m.expired(cached) {
			m.cache[name] = &entry{kind: Update, value: bytea, expiresAt: m.expiration(ttl)}
			return nil
		}
		return gerrors.NewErrStateConflict(name)
	}

	exists, err := m.provider.Contains(ctx, m.actorType, m.actorID, name)
	if err != nil {
		return err
	}

	if exists {
		return gerrors.NewErrStateConflict(name)
	}

	m.cache[name] = &entry{kind: Add, value: bytea, expiresAt: m.expiration(ttl)}
	return nil
}

// Get reads the value of a state name into target.
//
// It fails with errors.ErrStateNotFound when the name is pending removal, has
// expired or does not exist in the Provider.
func (m *Manager) Get(ctx context.Context, name string, target any) error {
	bytea, err := m.get(ctx, name)
	if err != nil {
		return err
	}
	return m.serializer.Deserialize(bytea, target)
}

// GetAs reads the value of a state name as a T.
func GetAs[T any](ctx context.Context, m *Manager, name string) (T, error) {
	var value T
	err := m.Get(ctx, name, &value)
	return value, err
}

// Set sets the value of a state name whether it exists or not.
// A ttl of zero or less means the value never expires.
func (m *Manager) Set(ctx context.Context, name string, value any, ttl time.Duration) error {
	if err := validateName(name); err != nil {
		return err
	}

	bytea, err := m.serializer.Serialize(value)
	if err != nil {
		return err
	}

	if cached, ok := m.cache[name]; ok {
		cached.value = bytea
		cached.expiresAt = m.expiration(ttl)
		if cached.kind == None || cached.kind == Remove {
			cached.kind = Update
		}
		return nil
	}

	exists, err := m.provider.Contains(ctx, m.actorType, m.actorID, name)
	if err != nil {
		return err
	}

	kind := Add
	if exists {
		kind = Update
	}

	m.cache[name] = &entry{kind: kind, value: bytea, expiresAt: m.expiration(ttl)}
	return nil
}

// Remove removes a state name. Removing a name that exists neither in the
// cache nor in the Provider is a no-op.
func (m *Manager) Remove(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if cached, ok := m.cache[name]; ok {
		switch cached.kind {
		case Remove:
		case Add:
			delete(m.cache, name)
		default:
			m.cache[name] = &entry{kind: Remove}
		}
		return nil
	}

	exists, err := m.provider.Contains(ctx, m.actorType, m.actorID, name)
	if err != nil {
		return err
	}

	if exists {
		m.cache[name] = &entry{kind: Remove}
	}
	return nil
}

// Contains reports whether a state name exists.
// Names pending removal or expired in the cache are reported absent.
func (m *Manager) Contains(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	if cached, ok := m.cache[name]; ok {
		return cached.kind != Remove && !m.expired(cached), nil
	}
	return m.provider.Contains(ctx, m.actorType, m.actorID, name)
}

// Save submits every pending change to the Provider as a single transaction
// ordered by state name. On success removed names are evicted and the rest
// of the cache is marked in sync with the Provider.
func (m *Manager) Save(ctx context.Context) error {
	changes := m.Changes()
	if len(changes) == 0 {
		return nil
	}

	if err := m.provider.Apply(ctx, m.actorType, m.actorID, changes); err != nil {
		return fmt.Errorf("failed to save state of actor=%s/%s: %w", m.actorType, m.actorID, err)
	}

	m.logger.Debugf("saved %d state change(s) of actor=%s/%s", len(changes), m.actorType, m.actorID)
	m.flush()
	return nil
}

// Changes returns the pending changes ordered by state name.
func (m *Manager) Changes() []Change {
	changes := make([]Change, 0, len(m.cache))
	for name, cached := range m.cache {
		if cached.kind == None {
			continue
		}
		changes = append(changes, Change{
			Name:      name,
			Kind:      cached.kind,
			Value:     cached.value,
			ExpiresAt: cached.expiresAt,
		})
	}

	slices.SortFunc(changes, func(a, b Change) int {
		return strings.Compare(a.Name, b.Name)
	})
	return changes
}

// Clear discards the whole cache without reaching the Provider.
// Subsequent reads go back to the Provider.
func (m *Manager) Clear() {
	clear(m.cache)
}

// Len returns the number of cached state names
func (m *Manager) Len() int {
	return len(m.cache)
}

func (m *Manager) get(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if cached, ok := m.cache[name]; ok {
		if cached.kind == Remove || m.expired(cached) {
			return nil, gerrors.NewErrStateNotFound(name)
		}
		return cached.value, nil
	}

	bytea, err := m.provider.Load(ctx, m.actorType, m.actorID, name)
	if err != nil {
		if errors.Is(err, gerrors.ErrStateNotFound) {
			return nil, gerrors.NewErrStateNotFound(name)
		}
		return nil, err
	}

	m.cache[name] = &entry{kind: None, value: bytea}
	return bytea, nil
}

func (m *Manager) flush() {
	for name, cached := range m.cache {
		if cached.kind == Remove {
			delete(m.cache, name)
			continue
		}
		cached.kind = None
	}
}

func (m *Manager) expired(cached *entry) bool {
	return cached.expiresAt != nil && m.clock().After(*cached.expiresAt)
}

func (m *Manager) expiration(ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	expiresAt := m.clock().Add(ttl)
	return &expiresAt
}

func validateName(name string) error {
	return validation.NewEmptyStringValidator("state name", name).Validate()
}
